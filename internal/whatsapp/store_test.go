package whatsapp

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	schema := `
	CREATE TABLE chats (jid TEXT PRIMARY KEY, name TEXT, last_message_time TEXT);
	CREATE TABLE messages (
		chat_jid TEXT, sender TEXT, content TEXT, timestamp TEXT,
		is_from_me INTEGER, media_type TEXT
	);
	INSERT INTO chats VALUES
		('111@s.whatsapp.net', 'Alice', '2026-08-01T10:00:00'),
		('222@s.whatsapp.net', 'Bob', '2026-08-02T09:00:00'),
		('333@g.us', 'Family Group', '2026-08-03T08:00:00');
	INSERT INTO messages VALUES
		('111@s.whatsapp.net', '111', 'hello there', '2026-08-01T10:00:00', 0, NULL),
		('111@s.whatsapp.net', NULL, 'hi back', '2026-08-01T10:01:00', 1, NULL),
		('333@g.us', '222', NULL, '2026-08-03T08:00:00', 0, 'image');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenStoreMissingFile(t *testing.T) {
	if _, err := OpenStore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatal("want error for missing database")
	}
}

func TestRecentChatsOrdered(t *testing.T) {
	store := newTestStore(t)

	chats, err := store.RecentChats(10)
	if err != nil {
		t.Fatalf("RecentChats: %v", err)
	}
	if len(chats) != 3 {
		t.Fatalf("chats = %+v", chats)
	}
	if chats[0].Name != "Family Group" || chats[2].Name != "Alice" {
		t.Errorf("not ordered by last activity: %+v", chats)
	}
}

func TestMessagesByChat(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.MessagesByChat("111", 10)
	if err != nil {
		t.Fatalf("MessagesByChat: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("msgs = %+v", msgs)
	}
	if !msgs[0].IsFromMe || msgs[0].Content != "hi back" {
		t.Errorf("latest message wrong: %+v", msgs[0])
	}
}

func TestSearchMessagesJoinsChatName(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.SearchMessages("hello", 10)
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("msgs = %+v", msgs)
	}
	if msgs[0].ChatName != "Alice" {
		t.Errorf("chat name = %q", msgs[0].ChatName)
	}
}

func TestRecentMessagesHandlesNullContent(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.RecentMessages(1)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("msgs = %+v", msgs)
	}
	if msgs[0].Content != "" || msgs[0].MediaType != "image" {
		t.Errorf("media message wrong: %+v", msgs[0])
	}
}

func TestSearchContactsClassifiesGroups(t *testing.T) {
	store := newTestStore(t)

	contacts, err := store.SearchContacts("Family")
	if err != nil {
		t.Fatalf("SearchContacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Type != "Group" {
		t.Fatalf("contacts = %+v", contacts)
	}

	contacts, err = store.SearchContacts("Alice")
	if err != nil {
		t.Fatalf("SearchContacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Type != "Contact" {
		t.Fatalf("contacts = %+v", contacts)
	}
}

func TestResolveRecipient(t *testing.T) {
	store := newTestStore(t)

	matches, err := store.ResolveRecipient("Bob")
	if err != nil {
		t.Fatalf("ResolveRecipient: %v", err)
	}
	if len(matches) != 1 || matches[0].JID != "222@s.whatsapp.net" {
		t.Fatalf("matches = %+v", matches)
	}
}
