package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pulseboard/internal/model"
	"pulseboard/internal/repository"
	"pulseboard/internal/service"
)

//go:embed dataset.json
var dataset []byte

// Record is one canned dashboard entry.
type Record struct {
	Date     string  `json:"date"`
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
	Category string  `json:"category"`
}

// Dataset returns the embedded demo entries.
func Dataset() ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(dataset, &records); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return records, nil
}

// Demo ensures the demo user exists and owns the canned dataset.
// Existing entries are left alone; seeding twice only fills gaps.
func Demo(ctx context.Context, users repository.UserRepository, entries repository.EntryRepository) (created int, err error) {
	user, err := users.FindByEmail(ctx, service.DemoEmail)
	if err == gorm.ErrRecordNotFound {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(service.DemoPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return 0, fmt.Errorf("hash demo password: %w", hashErr)
		}
		user = &model.User{
			Name:         "Demo User",
			Email:        service.DemoEmail,
			PasswordHash: string(hashed),
			Role:         model.RoleUser,
			Demo:         true,
		}
		if err := users.Create(ctx, user); err != nil {
			return 0, fmt.Errorf("create demo user: %w", err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("find demo user: %w", err)
	}

	existing, err := entries.ListByOwner(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("list demo entries: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Date+"|"+e.Category] = true
	}

	records, err := Dataset()
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		if seen[rec.Date+"|"+rec.Category] {
			continue
		}
		entry := &model.DataEntry{
			UserID:   user.ID,
			Date:     rec.Date,
			Sales:    rec.Sales,
			Profit:   rec.Profit,
			Category: rec.Category,
		}
		if err := entries.Create(ctx, entry); err != nil {
			return created, fmt.Errorf("create demo entry: %w", err)
		}
		created++
	}

	return created, nil
}
