package models

type SessionState struct {
	PinnedUserIDs []int64 `json:"pinned_user_ids"`
	CurrentScreen string  `json:"current_screen"`
}

func NewSessionState() *SessionState {
	return &SessionState{PinnedUserIDs: []int64{}}
}

// Pin appends userID unless it is already pinned.
func (s *SessionState) Pin(userID int64) bool {
	for _, id := range s.PinnedUserIDs {
		if id == userID {
			return false
		}
	}
	s.PinnedUserIDs = append(s.PinnedUserIDs, userID)
	return true
}

func (s *SessionState) Unpin(userID int64) bool {
	for i, id := range s.PinnedUserIDs {
		if id == userID {
			s.PinnedUserIDs = append(s.PinnedUserIDs[:i], s.PinnedUserIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize drops duplicate and non-positive pinned ids while keeping order.
func (s *SessionState) Normalize() {
	seen := make(map[int64]struct{}, len(s.PinnedUserIDs))
	pinned := make([]int64, 0, len(s.PinnedUserIDs))
	for _, id := range s.PinnedUserIDs {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		pinned = append(pinned, id)
	}
	s.PinnedUserIDs = pinned
}
