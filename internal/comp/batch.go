package comp

import "github.com/google/uuid"

// batchToken identifies one atomic reflow batch. Each batch owns its own
// token rather than sharing a process-wide counter, so overlapping
// batches stay independent.
type batchToken = uuid.UUID

var noBatch = uuid.Nil

// commitBatch holds back frame delivery for a set of windows that a
// single layout pass repositioned, so the reflow lands as one visual
// update instead of windows jumping one at a time.
type commitBatch struct {
	token   batchToken
	members []WindowID
	waiting map[WindowID]struct{}
}

// beginBatch starts a batch when mapping newWin repositioned at least one
// already-visible sibling. All repositioned windows (the new one
// included) join; none of their frames are delivered until every member
// has committed once at its newly assigned geometry.
func (s *State) beginBatch(newWin *Window, changed []*Window) {
	hasSibling := false
	for _, win := range changed {
		if win.ID != newWin.ID {
			hasSibling = true
			break
		}
	}
	if !hasSibling {
		return
	}

	batch := &commitBatch{
		token:   uuid.New(),
		waiting: make(map[WindowID]struct{}, len(changed)),
	}
	for _, win := range changed {
		// A window already in an older batch moves to the newer one; the
		// old batch forgets it.
		if win.batch != noBatch {
			s.dropFromBatch(win.batch, win.ID)
		}
		win.batch = batch.token
		batch.members = append(batch.members, win.ID)
		batch.waiting[win.ID] = struct{}{}
	}
	s.batches[batch.token] = batch

	s.log.Debug("Commit batch raised", "token", batch.token, "members", len(batch.members))
}

// batchCommitted records that the window committed at its post-layout
// geometry and releases the batch once every member has.
func (s *State) batchCommitted(win *Window) {
	if win.batch == noBatch {
		return
	}
	batch := s.batches[win.batch]
	if batch == nil {
		win.batch = noBatch
		return
	}
	delete(batch.waiting, win.ID)
	s.maybeReleaseBatch(batch)
}

// dropFromBatches removes a destroyed window from every batch it belongs
// to so it cannot hold its siblings hostage.
func (s *State) dropFromBatches(id WindowID) {
	for _, batch := range s.batches {
		s.dropFromBatch(batch.token, id)
	}
}

func (s *State) dropFromBatch(token batchToken, id WindowID) {
	batch := s.batches[token]
	if batch == nil {
		return
	}
	delete(batch.waiting, id)
	members := batch.members[:0]
	for _, m := range batch.members {
		if m != id {
			members = append(members, m)
		}
	}
	batch.members = members
	s.maybeReleaseBatch(batch)
}

// maybeReleaseBatch clears every member's blocker and flushes frames once
// the batch has settled.
func (s *State) maybeReleaseBatch(batch *commitBatch) {
	if len(batch.waiting) > 0 {
		return
	}
	delete(s.batches, batch.token)

	for _, id := range batch.members {
		win := s.windows[id]
		if win == nil {
			continue
		}
		win.batch = noBatch
		for _, name := range s.OutputsForWindow(id) {
			s.sendFrame(win, name)
			s.scheduleRender(name)
		}
	}

	s.log.Debug("Commit batch released", "token", batch.token)
}
