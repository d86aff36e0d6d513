// Package queue schedules submitted songs fairly across submitters.
//
// Each submitter has a FIFO UserQueue. The GlobalQueue pulls one song at a
// time from each user in turn, so a user who submits ten songs cannot push
// everyone else's first song back ten places.
package queue

import (
	"math/rand/v2"
	"sync"
)

// UserQueue holds one submitter's pending songs.
type UserQueue struct {
	UserID  string
	Shuffle bool
	songs   []*Song
}

// NewUserQueue creates an empty queue for a user.
func NewUserQueue(userID string) *UserQueue {
	return &UserQueue{UserID: userID}
}

func (u *UserQueue) push(s *Song) {
	u.songs = append(u.songs, s)
}

// next removes and returns the user's next song, or nil when empty.
func (u *UserQueue) next() *Song {
	if len(u.songs) == 0 {
		return nil
	}

	i := 0
	if u.Shuffle && len(u.songs) > 1 {
		i = rand.IntN(len(u.songs))
	}
	s := u.songs[i]
	u.songs = append(u.songs[:i], u.songs[i+1:]...)
	return s
}

// Len returns the number of pending songs.
func (u *UserQueue) Len() int {
	return len(u.songs)
}

// GlobalQueue is the play order plus the users it draws from, in
// round-robin order. It is safe for concurrent use.
type GlobalQueue struct {
	mu    sync.Mutex
	songs []*Song
	users []*UserQueue
}

// New creates an empty GlobalQueue.
func New() *GlobalQueue {
	return &GlobalQueue{}
}

// RegisterUser adds a user at the back of the rotation. Registering an
// existing user only updates its shuffle setting.
func (q *GlobalQueue) RegisterUser(userID string, shuffle bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.registerLocked(userID).Shuffle = shuffle
}

func (q *GlobalQueue) registerLocked(userID string) *UserQueue {
	for _, u := range q.users {
		if u.UserID == userID {
			return u
		}
	}
	u := NewUserQueue(userID)
	q.users = append(q.users, u)
	return u
}

// Submit appends a song to its submitter's queue, registering the submitter
// if needed. Users that ran dry were dropped from the rotation and rejoin at the back.
func (q *GlobalQueue) Submit(s *Song) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.registerLocked(s.Submitter).push(s)
}

// pullLocked moves one song from the next user with songs into the play
// order. Users with empty queues are dropped.
func (q *GlobalQueue) pullLocked() bool {
	for len(q.users) > 0 {
		u := q.users[0]
		q.users = q.users[1:]

		if s := u.next(); s != nil {
			q.users = append(q.users, u)
			q.songs = append(q.songs, s)
			return true
		}
	}
	return false
}

// Next returns the song to play now, or nil when nothing is queued. While the
// play order holds at most target songs, one more song is pulled in first.
func (q *GlobalQueue) Next(target int) *Song {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.songs) <= target {
		q.pullLocked()
	}
	if len(q.songs) == 0 {
		return nil
	}

	s := q.songs[0]
	q.songs[0] = nil
	q.songs = q.songs[1:]
	return s
}

// Flush pulls songs into the play order until it holds count songs or no
// user has any left.
func (q *GlobalQueue) Flush(count int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.songs) < count {
		if !q.pullLocked() {
			return
		}
	}
}

// Preview returns up to count upcoming songs without removing them.
func (q *GlobalQueue) Preview(count int) []Song {
	q.mu.Lock()
	defer q.mu.Unlock()

	if count > len(q.songs) {
		count = len(q.songs)
	}
	if count <= 0 {
		return nil
	}

	out := make([]Song, count)
	for i := range out {
		out[i] = *q.songs[i]
	}
	return out
}

// Len returns the number of songs in the play order.
func (q *GlobalQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.songs)
}

// Pending returns the number of songs each user in the rotation still has waiting.
func (q *GlobalQueue) Pending() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make(map[string]int, len(q.users))
	for _, u := range q.users {
		out[u.UserID] = u.Len()
	}
	return out
}
