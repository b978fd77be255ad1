// Package domain contains core concepts of the relay.
// This file defines Message records and the commands that create them.
// Messages are immutable and validated by the domain.
package domain

import (
	"eyesup/errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LocalSender labels messages authored by the driver.
const LocalSender = "me"

var validate = validator.New()

// Message represents an immutable relayed message.
type Message struct {
	ID        uuid.UUID `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to,omitempty"`
	Text      string    `json:"text"`
	IsGroup   bool      `json:"isGroup"`
	Outgoing  bool      `json:"outgoing"`
	Timestamp time.Time `json:"timestamp"`
}

// IncomingCommand is a message injected by an external sender.
type IncomingCommand struct {
	From    string `json:"from" validate:"required"`
	Text    string `json:"text" validate:"required"`
	IsGroup bool   `json:"isGroup"`
}

// ReplyCommand is an outgoing message written or dictated by the driver.
type ReplyCommand struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"text" validate:"required"`
}

func (c IncomingCommand) normalize() IncomingCommand {
	c.From, c.Text = strings.TrimSpace(c.From), strings.TrimSpace(c.Text)
	return c
}

func (c ReplyCommand) normalize() ReplyCommand {
	c.To, c.Text = strings.TrimSpace(c.To), strings.TrimSpace(c.Text)
	return c
}

func (c IncomingCommand) Validate() error {
	if err := validate.Struct(c.normalize()); err != nil {
		return errors.Validation("from and text required")
	}
	return nil
}

func (c ReplyCommand) Validate() error {
	if err := validate.Struct(c.normalize()); err != nil {
		return errors.Validation("to and text required")
	}
	return nil
}

// Draft turns a validated command into a message without identity.
// ID and Timestamp are assigned at persistence time.
func (c IncomingCommand) Draft() Message {
	c = c.normalize()
	return Message{From: c.From, Text: c.Text, IsGroup: c.IsGroup}
}

func (c ReplyCommand) Draft() Message {
	c = c.normalize()
	return Message{From: LocalSender, To: c.To, Text: c.Text, Outgoing: true}
}
