package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/quackhq/localops/internal/config"
	"github.com/quackhq/localops/internal/logger"
	"github.com/quackhq/localops/internal/whatsapp"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  whatsapp status
  whatsapp chats [-l limit]
  whatsapp messages [-c chat] [-s search] [-l limit]
  whatsapp contacts <query>
  whatsapp send <recipient> <message>
  whatsapp send-file <recipient> <file>`)
	os.Exit(1)
}

func main() {
	logger.Init()
	cfg := config.LoadConfig()

	if len(os.Args) < 2 {
		usage()
	}

	bridge := whatsapp.NewBridge(cfg.BridgeURL)

	switch os.Args[1] {
	case "status":
		cmdStatus(bridge, cfg.BridgeURL)
	case "chats":
		cmdChats(cfg.MessagesDB, os.Args[2:])
	case "messages":
		cmdMessages(cfg.MessagesDB, os.Args[2:])
	case "contacts":
		cmdContacts(cfg.MessagesDB, os.Args[2:])
	case "send":
		cmdSend(bridge, cfg.MessagesDB, os.Args[2:])
	case "send-file":
		cmdSendFile(bridge, os.Args[2:])
	default:
		usage()
	}
}

func openStore(path string) *whatsapp.Store {
	store, err := whatsapp.OpenStore(path)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open message store")
	}
	return store
}

func cmdStatus(bridge *whatsapp.Bridge, bridgeURL string) {
	if bridge.Running() {
		fmt.Println("WhatsApp bridge is RUNNING")
		return
	}
	fmt.Println("WhatsApp bridge is NOT RUNNING")
	fmt.Printf("\nExpected at %s. Start the bridge and try again.\n", bridgeURL)
}

func cmdChats(dbPath string, args []string) {
	fs := flag.NewFlagSet("chats", flag.ExitOnError)
	limit := fs.Int("l", 20, "Number of chats")
	_ = fs.Parse(args)

	store := openStore(dbPath)
	defer store.Close()

	chats, err := store.RecentChats(*limit)
	if err != nil {
		log.Fatal().Err(err).Msg("query failed")
	}
	if len(chats) == 0 {
		fmt.Println("No chats found")
		return
	}

	fmt.Printf("%-30s %-40s %s\n", "Name", "JID", "Last Active")
	fmt.Println(strings.Repeat("-", 90))
	for _, chat := range chats {
		name := chat.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Printf("%-30s %-40s %s\n", clip(name, 28), clip(chat.JID, 38), clip(chat.LastMessageTime, 19))
	}
}

func cmdMessages(dbPath string, args []string) {
	fs := flag.NewFlagSet("messages", flag.ExitOnError)
	chat := fs.String("c", "", "Filter by chat (name or JID)")
	search := fs.String("s", "", "Search message content")
	limit := fs.Int("l", 20, "Number of messages")
	_ = fs.Parse(args)

	store := openStore(dbPath)
	defer store.Close()

	var (
		msgs []whatsapp.Message
		err  error
	)
	switch {
	case *chat != "":
		msgs, err = store.MessagesByChat(*chat, *limit)
	case *search != "":
		msgs, err = store.SearchMessages(*search, *limit)
	default:
		msgs, err = store.RecentMessages(*limit)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("query failed")
	}
	if len(msgs) == 0 {
		fmt.Println("No messages found")
		return
	}

	for _, m := range msgs {
		direction := "←"
		if m.IsFromMe {
			direction = "→"
		}
		sender := clip(m.Sender, 15)
		if sender == "" {
			sender = "Me"
		}
		content := clip(m.Content, 60)
		if content == "" {
			content = "[" + m.MediaType + "]"
		}
		ts := clip(m.Timestamp, 16)

		if m.ChatName != "" {
			fmt.Printf("[%s] %s: %s %s: %s\n", ts, clip(m.ChatName, 20), direction, sender, content)
		} else {
			fmt.Printf("[%s] %s %s: %s\n", ts, direction, sender, content)
		}
	}
}

func cmdContacts(dbPath string, args []string) {
	if len(args) != 1 {
		usage()
	}
	query := args[0]

	store := openStore(dbPath)
	defer store.Close()

	contacts, err := store.SearchContacts(query)
	if err != nil {
		log.Fatal().Err(err).Msg("query failed")
	}
	if len(contacts) == 0 {
		fmt.Printf("No contacts found matching '%s'\n", query)
		return
	}

	fmt.Printf("%-10s %-30s %s\n", "Type", "Name", "JID")
	fmt.Println(strings.Repeat("-", 80))
	for _, c := range contacts {
		name := c.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Printf("%-10s %-30s %s\n", c.Type, name, c.JID)
	}
}

func cmdSend(bridge *whatsapp.Bridge, dbPath string, args []string) {
	if len(args) != 2 {
		usage()
	}
	recipient, message := args[0], args[1]

	// Names get resolved through the store; JIDs pass straight through.
	if !strings.Contains(recipient, "@") {
		store := openStore(dbPath)
		matches, err := store.ResolveRecipient(recipient)
		store.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("recipient lookup failed")
		}

		if len(matches) == 0 {
			fmt.Printf("No contact found matching '%s'\n", recipient)
			os.Exit(1)
		}
		if len(matches) > 1 {
			fmt.Printf("Multiple matches for '%s':\n", recipient)
			for i, m := range matches {
				fmt.Printf("  %d. %s (%s)\n", i+1, m.Name, m.JID)
			}
			fmt.Println("\nUse the full JID to send.")
			os.Exit(1)
		}

		fmt.Printf("Sending to: %s (%s)\n", matches[0].Name, matches[0].JID)
		recipient = matches[0].JID
	}

	resp, err := bridge.Send(recipient, message, "")
	if err != nil {
		log.Fatal().Err(err).Msg("send failed")
	}
	reportSend(resp, "Message sent!")
}

func cmdSendFile(bridge *whatsapp.Bridge, args []string) {
	if len(args) != 2 {
		usage()
	}
	recipient, file := args[0], args[1]

	if _, err := os.Stat(file); err != nil {
		log.Fatal().Msgf("file not found: %s", file)
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot resolve file path")
	}

	resp, err := bridge.Send(recipient, "", abs)
	if err != nil {
		log.Fatal().Err(err).Msg("send failed")
	}
	reportSend(resp, "File sent!")
}

func reportSend(resp *whatsapp.SendResponse, okMsg string) {
	if resp.Success {
		fmt.Println(okMsg)
		return
	}
	msg := resp.Message
	if msg == "" {
		msg = "Unknown error"
	}
	fmt.Printf("Failed: %s\n", msg)
	os.Exit(1)
}

// clip truncates a value for column display.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
