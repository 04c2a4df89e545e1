package main

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sample domain types the CLI can inspect.

type Entity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	version   int
}

func (e *Entity) GetID() uuid.UUID { return e.ID }

type Customer struct {
	Entity
	FirstName string
	LastName  string
	Email     string `prop:"emailAddress"`
	Active    bool
	password  string
}

func (c *Customer) GetFullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) IsActive() bool { return c.Active }
func (c *Customer) SetActive(active bool) { c.Active = active }
func (c *Customer) SetPassword(secret string) { c.password = secret }

type Tag struct {
	Label string
}

type LineItem struct {
	SKU      string
	Quantity int
	Price    float64
}

type Order struct {
	Entity
	Customer *Customer
	Items    []LineItem
	Status   string `prop:"name:status;readonly"`
	Notes    string `prop:"-"`
}

func (o *Order) GetTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

func (o *Order) SetStatus(status string) error {
	switch status {
	case "open", "paid", "shipped":
		o.Status = status
		return nil
	default:
		return fmt.Errorf("unknown order status %q", status)
	}
}

var models = map[string]reflect.Type{
	"customer": reflect.TypeFor[Customer](),
	"entity":   reflect.TypeFor[Entity](),
	"lineitem": reflect.TypeFor[LineItem](),
	"order":    reflect.TypeFor[Order](),
	"tag":      reflect.TypeFor[Tag](),
}

func modelNames() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupModel(name string) (reflect.Type, error) {
	rt, ok := models[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (known: %s)", name, strings.Join(modelNames(), ", "))
	}
	return rt, nil
}
