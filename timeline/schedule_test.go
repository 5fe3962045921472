package timeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleTakeOnce(t *testing.T) {
	s := NewSchedule()
	assert.False(t, s.Add(25, Event{Type: UserBits, Data: "TEST"}))
	assert.False(t, s.Add(5, Event{Type: UserBitsClear}))
	assert.Equal(t, []int64{5, 25}, s.Frames())

	e, ok := s.Take(25)
	assert.True(t, ok)
	assert.Equal(t, UserBits, e.Type)

	_, ok = s.Take(25)
	assert.False(t, ok, "events fire at most once")
	assert.Equal(t, 1, s.Len())
}

func TestScheduleReplace(t *testing.T) {
	s := NewSchedule()
	s.Add(1, Event{Type: UserBits, Data: "AAAA"})
	assert.True(t, s.Add(1, Event{Type: UserBits, Data: "BBBB"}))

	e, _ := s.Take(1)
	assert.Equal(t, "BBBB", e.Data)
}

func TestQueue(t *testing.T) {
	var q Queue
	assert.Empty(t, q.Drain())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push(Event{Type: UserBitsClear})
		}()
	}
	wg.Wait()

	assert.Len(t, q.Drain(), 10)
	assert.Empty(t, q.Drain())
}
