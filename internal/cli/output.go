package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Participant:
		o.printParticipant(v)
	case []Participant:
		o.printParticipants(v)
	case RegisterResult:
		o.printRegisterResult(v)
	case Message:
		o.printChatMessage(v)
	case []Message:
		for _, m := range v {
			o.printChatMessage(m)
		}
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Participant response type (matches API)
type Participant struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

// RegisterResult combines participant and token
type RegisterResult struct {
	Participant  Participant `json:"participant"`
	SessionToken string      `json:"session_token"`
}

// Message response type
type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printParticipant(p Participant) {
	last := time.UnixMilli(p.LastStatus).Local().Format("15:04:05")
	fmt.Printf("%s (last seen %s)\n", p.Name, last)
}

func (o *Output) printParticipants(ps []Participant) {
	if len(ps) == 0 {
		fmt.Println("The room is empty")
		return
	}
	fmt.Printf("In the room (%d):\n", len(ps))
	for _, p := range ps {
		last := time.UnixMilli(p.LastStatus).Local().Format("15:04:05")
		fmt.Printf("  - %s (last seen %s)\n", p.Name, last)
	}
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Printf("Joined as %s\n", r.Participant.Name)
	fmt.Printf("Token: %s\n", r.SessionToken)
}

func (o *Output) printChatMessage(m Message) {
	switch m.Type {
	case "status":
		fmt.Printf("[%s] * %s %s\n", m.Time, m.From, m.Text)
	case "private_message":
		fmt.Printf("[%s] %s -> %s (private): %s\n", m.Time, m.From, m.To, m.Text)
	default:
		fmt.Printf("[%s] %s -> %s: %s\n", m.Time, m.From, m.To, m.Text)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
