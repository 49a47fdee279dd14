package whatsapp

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Chat is one row of the bridge's chats table.
type Chat struct {
	JID             string
	Name            string
	LastMessageTime string
}

// Message is one row of the bridge's messages table, optionally joined with
// the chat name.
type Message struct {
	Sender    string
	Content   string
	Timestamp string
	IsFromMe  bool
	MediaType string
	ChatName  string
}

// Store reads the bridge's SQLite message database. The schema belongs to
// the bridge; all access here is read-only.
type Store struct {
	db *sql.DB
}

// OpenStore opens the messages database at path.
func OpenStore(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecentChats lists chats by most recent activity.
func (s *Store) RecentChats(limit int) ([]Chat, error) {
	rows, err := s.db.Query(`
		SELECT jid, name, last_message_time
		FROM chats
		ORDER BY last_message_time DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("chats query failed: %w", err)
	}
	defer rows.Close()

	return scanChats(rows)
}

// MessagesByChat lists messages whose chat JID matches the filter.
func (s *Store) MessagesByChat(chat string, limit int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT sender, content, timestamp, is_from_me, media_type, '' AS chat_name
		FROM messages
		WHERE chat_jid LIKE ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, "%"+chat+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("messages query failed: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// SearchMessages searches message content across all chats.
func (s *Store) SearchMessages(search string, limit int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT m.sender, m.content, m.timestamp, m.is_from_me, m.media_type, c.name AS chat_name
		FROM messages m
		LEFT JOIN chats c ON m.chat_jid = c.jid
		WHERE m.content LIKE ?
		ORDER BY m.timestamp DESC
		LIMIT ?
	`, "%"+search+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// RecentMessages lists the latest messages across all chats.
func (s *Store) RecentMessages(limit int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT m.sender, m.content, m.timestamp, m.is_from_me, m.media_type, c.name AS chat_name
		FROM messages m
		LEFT JOIN chats c ON m.chat_jid = c.jid
		ORDER BY m.timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("messages query failed: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// Contact is a chats row classified as a group or a direct contact.
type Contact struct {
	Type string
	Name string
	JID  string
}

// SearchContacts finds chats by name or JID.
func (s *Store) SearchContacts(query string) ([]Contact, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT DISTINCT
			CASE WHEN jid LIKE '%@g.us' THEN 'Group' ELSE 'Contact' END AS type,
			name,
			jid
		FROM chats
		WHERE name LIKE ? OR jid LIKE ?
		ORDER BY name
		LIMIT 20
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("contacts query failed: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		var name sql.NullString
		if err := rows.Scan(&c.Type, &name, &c.JID); err != nil {
			return nil, err
		}
		c.Name = name.String
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ResolveRecipient finds up to five chats matching a name or JID fragment.
func (s *Store) ResolveRecipient(query string) ([]Chat, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT jid, name, '' AS last_message_time FROM chats
		WHERE name LIKE ? OR jid LIKE ?
		LIMIT 5
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("recipient lookup failed: %w", err)
	}
	defer rows.Close()

	return scanChats(rows)
}

func scanChats(rows *sql.Rows) ([]Chat, error) {
	var chats []Chat
	for rows.Next() {
		var c Chat
		var name, last sql.NullString
		if err := rows.Scan(&c.JID, &name, &last); err != nil {
			return nil, err
		}
		c.Name = name.String
		c.LastMessageTime = last.String
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func scanMessages(rows *sql.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		var m Message
		var sender, content, ts, media, chatName sql.NullString
		if err := rows.Scan(&sender, &content, &ts, &m.IsFromMe, &media, &chatName); err != nil {
			return nil, err
		}
		m.Sender = sender.String
		m.Content = content.String
		m.Timestamp = ts.String
		m.MediaType = media.String
		m.ChatName = chatName.String
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
