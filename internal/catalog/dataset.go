// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/validation"
)

// ErrInvalidDataset is returned when a dataset fails validation.
var ErrInvalidDataset = errors.New("invalid dataset")

// Categories is the fixed set of product categories.
var Categories = []string{
	"Electronics",
	"Accessories",
	"Fitness",
	"Personal Care",
	"Office Supplies",
	"Books",
	"Apparel",
}

// UserRecord is one row of the users table.
type UserRecord struct {
	UserID   int    `json:"user_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"notblank"`
	Location string `json:"location"`
	Device   string `json:"device" validate:"omitempty,oneof=mobile desktop tablet"`
}

// ProductRecord is one row of the products table.
type ProductRecord struct {
	ProductID int      `json:"product_id" validate:"required,gt=0"`
	Name      string   `json:"name" validate:"notblank"`
	Category  string   `json:"category" validate:"notblank"`
	Tags      []string `json:"tags" validate:"dive,notblank"`
	Rating    float64  `json:"rating" validate:"gte=0,lte=5"`
}

// BrowsingRecord is one browsing event.
type BrowsingRecord struct {
	UserID    int       `json:"user_id" validate:"required,gt=0"`
	ProductID int       `json:"product_id" validate:"required,gt=0"`
	Event     string    `json:"event" validate:"required,oneof=view click add_to_cart purchase"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// PurchaseRecord is one completed purchase.
type PurchaseRecord struct {
	UserID    int       `json:"user_id" validate:"required,gt=0"`
	ProductID int       `json:"product_id" validate:"required,gt=0"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// ContextRuleRecord is one row of the context rules table.
type ContextRuleRecord struct {
	Category string   `json:"category" validate:"notblank"`
	PeakDays []string `json:"peak_days" validate:"dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Season   string   `json:"season" validate:"notblank"`
}

// Dataset holds the raw tables of one catalog.
type Dataset struct {
	Users        []UserRecord        `json:"users" validate:"required,unique=UserID,dive"`
	Products     []ProductRecord     `json:"products" validate:"required,unique=ProductID,dive"`
	Browsing     []BrowsingRecord    `json:"browsing" validate:"dive"`
	Purchases    []PurchaseRecord    `json:"purchases" validate:"dive"`
	ContextRules []ContextRuleRecord `json:"context_rules" validate:"unique=Category,dive"`
}

// Decode reads a JSON dataset and validates it. Unknown fields are rejected.
func Decode(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var d Dataset
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads and validates the dataset at path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadSnapshot builds a snapshot from the dataset at path, or from the
// built-in demo dataset when path is empty.
func LoadSnapshot(path string) (*recommend.Snapshot, error) {
	d := DefaultDataset()
	if path != "" {
		var err error
		if d, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	return d.Snapshot()
}

// Validate checks record structure, category membership and references
// between tables.
func (d *Dataset) Validate() error {
	if verr := validation.ValidateStruct(d); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, verr)
	}

	users := make(map[int]struct{}, len(d.Users))
	for _, u := range d.Users {
		users[u.UserID] = struct{}{}
	}
	products := make(map[int]struct{}, len(d.Products))
	for _, p := range d.Products {
		if !slices.Contains(Categories, p.Category) {
			return fmt.Errorf("%w: product %d has unknown category %q", ErrInvalidDataset, p.ProductID, p.Category)
		}
		products[p.ProductID] = struct{}{}
	}
	for _, r := range d.ContextRules {
		if !slices.Contains(Categories, r.Category) {
			return fmt.Errorf("%w: context rule has unknown category %q", ErrInvalidDataset, r.Category)
		}
	}

	check := func(table string, i, userID, productID int) error {
		if _, ok := users[userID]; !ok {
			return fmt.Errorf("%w: %s[%d] references unknown user %d", ErrInvalidDataset, table, i, userID)
		}
		if _, ok := products[productID]; !ok {
			return fmt.Errorf("%w: %s[%d] references unknown product %d", ErrInvalidDataset, table, i, productID)
		}
		return nil
	}
	for i, b := range d.Browsing {
		if err := check("browsing", i, b.UserID, b.ProductID); err != nil {
			return err
		}
	}
	for i, p := range d.Purchases {
		if err := check("purchases", i, p.UserID, p.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot converts the dataset into an unclustered engine snapshot.
// Browsing events come first in the interaction log, then purchases.
func (d *Dataset) Snapshot() (*recommend.Snapshot, error) {
	users := make([]recommend.User, len(d.Users))
	for i, u := range d.Users {
		users[i] = recommend.User{ID: u.UserID, Name: u.Name, Location: u.Location, Device: u.Device}
	}

	products := make([]recommend.Product, len(d.Products))
	byID := make(map[int]recommend.Product, len(d.Products))
	for i, p := range d.Products {
		products[i] = recommend.Product{
			ID:       p.ProductID,
			Name:     p.Name,
			Category: p.Category,
			Tags:     append([]string(nil), p.Tags...),
			Rating:   p.Rating,
		}
		byID[p.ProductID] = products[i]
	}

	interactions := make([]recommend.Interaction, 0, len(d.Browsing)+len(d.Purchases))
	for i, b := range d.Browsing {
		kind, err := recommend.ParseEventKind(b.Event)
		if err != nil {
			return nil, fmt.Errorf("browsing[%d]: %w", i, err)
		}
		inter, err := recommend.NewInteraction(b.UserID, byID[b.ProductID], kind, b.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("browsing[%d]: %w", i, err)
		}
		interactions = append(interactions, inter)
	}
	for i, p := range d.Purchases {
		inter, err := recommend.NewInteraction(p.UserID, byID[p.ProductID], recommend.EventPurchase, p.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("purchases[%d]: %w", i, err)
		}
		interactions = append(interactions, inter)
	}

	rules := make([]recommend.ContextRule, len(d.ContextRules))
	for i, r := range d.ContextRules {
		rules[i] = recommend.ContextRule{
			Category: r.Category,
			PeakDays: append([]string(nil), r.PeakDays...),
			Season:   r.Season,
		}
	}

	snap, err := recommend.NewSnapshot(users, products, interactions, rules)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	return snap, nil
}
