package api

import (
	"sync/atomic"

	"github.com/annel0/tilecraft/internal/world/entity"
)

// PlayerFeed последний опубликованный снимок игрока.
// Симуляция публикует снимок раз в кадр, HTTP-обработчики только читают.
type PlayerFeed struct {
	state atomic.Pointer[entity.PlayerState]
}

// Publish сохраняет снимок
func (f *PlayerFeed) Publish(s entity.PlayerState) {
	f.state.Store(&s)
}

// Load возвращает последний снимок, если он был
func (f *PlayerFeed) Load() (entity.PlayerState, bool) {
	s := f.state.Load()
	if s == nil {
		return entity.PlayerState{}, false
	}
	return *s, true
}
