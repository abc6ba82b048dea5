// Package gate validates untrusted request payloads against static rules
// and the live participant directory. Every applicable rule is checked
// and reported together; only a directory read failure short-circuits,
// because that is an infrastructure problem rather than bad input.
package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/storage"
)

// RegisterPayload is the validated shape of a registration request
type RegisterPayload struct {
	Name string `validate:"required"`
}

// MessagePayload is the validated shape of a send or edit request
type MessagePayload struct {
	To   string `validate:"required"`
	Text string `validate:"required"`
	Type string `validate:"required,oneof=message private_message"`
}

// Gate validates payloads against the current directory snapshot
type Gate struct {
	storage  storage.Storage
	validate *validator.Validate
}

// New creates a new validation gate
func New(storage storage.Storage) *Gate {
	return &Gate{
		storage:  storage,
		validate: validator.New(),
	}
}

// CheckRegister validates a registration payload. Returns a
// *model.ValidationError listing every violation, or nil.
func (g *Gate) CheckRegister(p RegisterPayload) error {
	violations := g.structViolations(p)
	if len(violations) > 0 {
		return model.NewValidationError(violations...)
	}
	return nil
}

// CheckMessage validates a send or edit payload and the sender's
// membership, read from the directory during this call rather than from
// any earlier snapshot. A directory read failure is returned as-is,
// distinct from input violations.
func (g *Gate) CheckMessage(ctx context.Context, sender string, p MessagePayload) error {
	violations := g.structViolations(p)

	_, err := g.storage.GetParticipant(ctx, sender)
	switch {
	case errors.Is(err, model.ErrParticipantNotFound):
		violations = append(violations, fmt.Sprintf("sender %q is not in the room", sender))
	case err != nil:
		return fmt.Errorf("checking sender membership: %w", err)
	}

	if len(violations) > 0 {
		return model.NewValidationError(violations...)
	}
	return nil
}

// CheckMember verifies that name is currently in the directory. Absence
// is model.ErrParticipantNotFound, which the boundary maps to a
// not-present signal rather than a validation failure.
func (g *Gate) CheckMember(ctx context.Context, name string) error {
	_, err := g.storage.GetParticipant(ctx, name)
	return err
}

func (g *Gate) structViolations(payload any) []string {
	err := g.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	violations := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, violationMessage(fe))
	}
	return violations
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		return "name must be a non-empty string"
	case "To":
		return "to must be a non-empty string"
	case "Text":
		return "text must be a non-empty string"
	case "Type":
		return "type must be one of: message, private_message"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
