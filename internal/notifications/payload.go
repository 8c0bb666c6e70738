package notifications

import (
	"encoding/json"
	"fmt"

	"github.com/mapleleafu/water/internal/store"
)

// Action identifiers understood by the service worker.
const (
	ActionDrink = "drink"
	ActionClose = "close"
)

// Payload is the JSON body delivered to the service worker.
type Payload struct {
	Title   string       `json:"title"`
	Body    string       `json:"body"`
	Icon    string       `json:"icon"`
	Tag     string       `json:"tag"`
	Data    PayloadData  `json:"data"`
	Actions []PushAction `json:"actions"`
}

// PayloadData tells the client whom to log the drink for and how much.
type PayloadData struct {
	UserID string `json:"userId"`
	Amount int    `json:"amount"`
}

// PushAction is a notification button.
type PushAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// BuildPayload renders the reminder for one subscriber.
func BuildPayload(owner store.Subscriber) ([]byte, error) {
	p := Payload{
		Title: fmt.Sprintf("Time to Hydrate, %s! 💧", owner.Name),
		Body:  "Drink a glass of water now.",
		Icon:  "/icon.png",
		Tag:   "water-reminder",
		Data:  PayloadData{UserID: owner.ID, Amount: defaultDrinkAmount},
		Actions: []PushAction{
			{Action: ActionDrink, Title: "✅ I Drank It"},
			{Action: ActionClose, Title: "❌ Snooze"},
		},
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return b, nil
}
