package dialog

import "sync"

// Store Состояния диалогов в памяти, по одному на чат. Незавершённый диалог
// живёт до перезапуска процесса или до старта нового диалога в том же чате.
type Store struct {
	mu    sync.RWMutex
	items map[int64]Item
}

func NewStore() *Store {
	return &Store{items: make(map[int64]Item)}
}

func (s *Store) Get(chatID int64) Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[chatID]
	if !ok {
		return Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}
	}
	return it
}

// Set Новый диалог вытесняет прежний: переноса данных между диалогами нет.
func (s *Store) Set(chatID int64, state State, payload Payload) {
	if payload == nil {
		payload = Payload{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[chatID] = Item{ChatID: chatID, State: state, Payload: payload}
}

func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, chatID)
}
