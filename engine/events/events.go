// Package events implements single-pass dispatch of host callbacks to the
// distributor. Handlers do not emit further events.
package events

import (
	"errors"
	"fmt"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

// Type identifies a host callback.
type Type string

const (
	ContainerReady Type = "container_ready"
	InventoryReset Type = "inventory_reset"
	BeforeSave     Type = "before_save"
	AfterSave      Type = "after_save"
	LoadGame       Type = "load_game"
)

// Event is one host callback. BaseID is only meaningful for ContainerReady;
// LoadGame carries no ids.
type Event struct {
	Type       Type
	InstanceID host.FormID
	BaseID     host.FormID
}

func (e Event) String() string {
	switch e.Type {
	case ContainerReady:
		return fmt.Sprintf("%s 0x%08x (base 0x%08x)", e.Type, uint32(e.InstanceID), uint32(e.BaseID))
	case LoadGame:
		return string(e.Type)
	default:
		return fmt.Sprintf("%s 0x%08x", e.Type, uint32(e.InstanceID))
	}
}

// Handler receives host callbacks.
type Handler interface {
	OnContainerReady(instanceID, baseID host.FormID) error
	OnInventoryReset(instanceID host.FormID) error
	OnBeforeSave(instanceID host.FormID) error
	OnAfterSave(instanceID host.FormID) error
	OnLoadGame() error
}

// Ready builds a ContainerReady event.
func Ready(instanceID, baseID host.FormID) Event {
	return Event{Type: ContainerReady, InstanceID: instanceID, BaseID: baseID}
}

// Reset builds an InventoryReset event.
func Reset(instanceID host.FormID) Event {
	return Event{Type: InventoryReset, InstanceID: instanceID}
}

// Load builds a LoadGame event.
func Load() Event { return Event{Type: LoadGame} }

// Dispatch routes events to h in order. Single pass; a failing event does
// not stop the ones after it. Errors are joined.
func Dispatch(h Handler, events ...Event) error {
	var errs []error
	for _, ev := range events {
		if err := dispatch(h, ev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ev, err))
		}
	}
	return errors.Join(errs...)
}

func dispatch(h Handler, ev Event) error {
	switch ev.Type {
	case ContainerReady:
		return h.OnContainerReady(ev.InstanceID, ev.BaseID)
	case InventoryReset:
		return h.OnInventoryReset(ev.InstanceID)
	case BeforeSave:
		return h.OnBeforeSave(ev.InstanceID)
	case AfterSave:
		return h.OnAfterSave(ev.InstanceID)
	case LoadGame:
		return h.OnLoadGame()
	}
	return fmt.Errorf("unknown event type %q", ev.Type)
}
