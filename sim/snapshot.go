package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/events"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/engine/save"
	"github.com/ThirdEyeSqueegee/ContainerItemDistributor/host"
)

// Save writes a snapshot of every readied ref to out. h sees BeforeSave for
// each ref before the snapshot is taken and AfterSave once it is written, as
// the game raises them around a save.
func (w *World) Save(out io.Writer, h events.Handler) error {
	var refs []*Ref
	for _, r := range w.Refs() {
		if r.spawned {
			refs = append(refs, r)
		}
	}

	before := make([]events.Event, len(refs))
	after := make([]events.Event, len(refs))
	for i, r := range refs {
		before[i] = events.Event{Type: events.BeforeSave, InstanceID: r.id}
		after[i] = events.Event{Type: events.AfterSave, InstanceID: r.id}
	}
	if err := events.Dispatch(h, before...); err != nil {
		return err
	}

	snap := &save.Snapshot{Level: w.Level(), Instances: make([]save.Instance, 0, len(refs))}
	for _, r := range refs {
		inst := save.Instance{ID: uint32(r.id), Contents: []save.Stack{}}
		for _, e := range r.Contents() {
			inst.Contents = append(inst.Contents, save.Stack{Item: uint32(e.Object.FormID()), Count: e.Count})
		}
		snap.Instances = append(snap.Instances, inst)
	}
	werr := save.Write(out, snap)

	return errors.Join(werr, events.Dispatch(h, after...))
}

// LoadSnapshot restores ref inventories from a snapshot written by Save and
// raises LoadGame on h. Refs missing from the snapshot go back to unreadied.
func (w *World) LoadSnapshot(in io.Reader, h events.Handler) error {
	snap, err := save.Read(in)
	if err != nil {
		return err
	}

	w.SetLevel(snap.Level)
	saved := make(map[host.FormID]save.Instance, len(snap.Instances))
	for _, inst := range snap.Instances {
		saved[host.FormID(inst.ID)] = inst
	}

	for _, r := range w.Refs() {
		r.Inventory.clear()
		inst, ok := saved[r.id]
		r.spawned = ok
		if !ok {
			continue
		}
		for _, st := range inst.Contents {
			item, found := w.Form(host.FormID(st.Item))
			if !found {
				slog.Warn("snapshot item no longer exists", "ref", r.name, "item", fmt.Sprintf("0x%08x", st.Item))
				continue
			}
			r.Add(item, st.Count)
		}
		delete(saved, r.id)
	}
	for id := range saved {
		slog.Warn("snapshot ref no longer exists", "ref", fmt.Sprintf("0x%08x", uint32(id)))
	}

	return events.Dispatch(h, events.Load())
}
