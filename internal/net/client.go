package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer
}

// NewClient creates a REPL client on stdin/stdout.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int, name string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", DeckNumber: deckNumber, Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")
	return NewClient(conn).RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively until the
// game is over.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "choose_mulligan":
			c.renderState(msg.State)
			c.renderMulligan(msg.Candidates)
			reply := c.readMulligan(len(msg.Candidates))
			if err := enc.Encode(reply); err != nil {
				return fmt.Errorf("send mulligan: %w", err)
			}

		case "choose_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			if err := enc.Encode(c.readChoice(len(msg.Actions))); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "game_over", "error":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	fmt.Fprintf(c.out, "T%-2d %-13s| %s\n", ev.Turn, ev.Type, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(w, "║  %s (HP: %d/%d)  Mana: %d/%d  Hand: %d  Deck: %d  Graveyard: %d\n",
		opp.Name, opp.Health, opp.MaxHealth, opp.Mana, opp.MaxMana, opp.HandCount, opp.DeckCount, opp.GraveyardCount)
	fmt.Fprintf(w, "║  Field: %s\n", formatField(opp.Field))

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	you := sv.You
	fmt.Fprintf(w, "║  Field: %s\n", formatField(you.Field))
	fmt.Fprintf(w, "║  %s (HP: %d/%d)  Mana: %d/%d  Hand: %d  Deck: %d  Graveyard: %d\n",
		you.Name, you.Health, you.MaxHealth, you.Mana, you.MaxMana, you.HandCount, you.DeckCount, you.GraveyardCount)
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else if sv.Phase == "playing" {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(w, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for i, cv := range you.Hand {
			fmt.Fprintf(w, "[%d] %s  ", i+1, formatCard(cv))
		}
		fmt.Fprintln(w)
	}
}

func formatField(field []MinionView) string {
	if len(field) == 0 {
		return "(empty)"
	}
	var parts []string
	for _, m := range field {
		s := fmt.Sprintf("[%s %d/%d", m.Name, m.Attack, m.Health)
		if m.DivineShield {
			s += " shield"
		}
		if m.Frozen {
			s += " frozen"
		}
		for _, kw := range m.Keywords {
			if kw == "taunt" || kw == "stealth" {
				if kw == "stealth" && !m.Stealthed {
					continue
				}
				s += " " + kw
			}
		}
		parts = append(parts, s+"]")
	}
	return strings.Join(parts, " ")
}

func formatCard(cv CardView) string {
	if cv.Type == "minion" {
		return fmt.Sprintf("%s (%d) %d/%d", cv.Name, cv.Cost, cv.Attack, cv.Health)
	}
	return fmt.Sprintf("%s (%d)", cv.Name, cv.Cost)
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.out, "\nActions (c to concede):")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) readChoice(count int) ClientMessage {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "c" || line == "concede" || (err != nil && line == "") {
			return ClientMessage{Type: "concede"}
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return ClientMessage{Type: "action", Index: n - 1} // convert to 0-indexed
	}
}

func (c *Client) renderMulligan(candidates []CardView) {
	fmt.Fprintln(c.out, "\nMulligan: enter the numbers of the cards to replace (blank keeps all)")
	for _, cv := range candidates {
		fmt.Fprintf(c.out, "  %d) %s\n", cv.Index+1, formatCard(cv))
	}
}

func (c *Client) readMulligan(count int) ClientMessage {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "c" || line == "concede" {
			return ClientMessage{Type: "concede"}
		}

		var indices []int
		valid := true
		for _, p := range strings.Fields(line) {
			n, convErr := strconv.Atoi(p)
			if convErr != nil || n < 1 || n > count {
				fmt.Fprintf(c.out, "Each number must be between 1 and %d\n", count)
				valid = false
				break
			}
			indices = append(indices, n-1) // convert to 0-indexed
		}
		if valid || err != nil {
			return ClientMessage{Type: "mulligan", Indices: indices}
		}
	}
}
