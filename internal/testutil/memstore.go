package testutil

import (
	"context"
	"sort"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// MemStore is an in-memory repository.Store for engine tests. Mutations apply
// immediately and there is no isolation; Commit and Rollback only keep
// counters, which is enough for single-goroutine tests. Lookups return copies,
// like row scans would.
type MemStore struct {
	nextID    int64
	Users     map[int64]*domain.User
	Games     map[int64]*domain.Game
	Parts     []domain.Participant
	Sheets    map[int64]*domain.Sheet
	EntryRows map[int64]*domain.Entry
	Begun     int
	Commits   int
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{
		Users:     make(map[int64]*domain.User),
		Games:     make(map[int64]*domain.Game),
		Sheets:    make(map[int64]*domain.Sheet),
		EntryRows: make(map[int64]*domain.Entry),
	}
}

func (s *MemStore) Begin(ctx context.Context) (repository.Tx, error) {
	s.Begun++
	return &MemTx{s: s}, nil
}

func (s *MemStore) id() int64 {
	s.nextID++
	return s.nextID
}

// MemTx implements repository.Tx directly against the MemStore maps.
type MemTx struct {
	s *MemStore
}

func (t *MemTx) Commit() error {
	t.s.Commits++
	return nil
}

func (t *MemTx) Rollback() error { return nil }

func (t *MemTx) UserByID(id int64) (*domain.User, error) {
	return cloneUser(t.s.Users[id]), nil
}

func (t *MemTx) UserByAPIID(apiID int64) (*domain.User, error) {
	for _, u := range t.s.Users {
		if u.APIID == apiID {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (t *MemTx) UserByChatID(chatID int64) (*domain.User, error) {
	for _, u := range t.s.Users {
		if u.ChatID == chatID {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (t *MemTx) CreateUser(u *domain.User) error {
	u.ID = t.s.id()
	t.s.Users[u.ID] = cloneUser(u)
	return nil
}

func (t *MemTx) UpdateUser(u *domain.User) error {
	t.s.Users[u.ID] = cloneUser(u)
	return nil
}

func (t *MemTx) GameByID(id int64) (*domain.Game, error) {
	return cloneGame(t.s.Games[id]), nil
}

func (t *MemTx) OpenGameByChat(chatID int64) (*domain.Game, error) {
	for _, g := range t.s.Games {
		if g.ChatID == chatID && g.FinishedAt == nil {
			return cloneGame(g), nil
		}
	}
	return nil, nil
}

func (t *MemTx) CreateGame(g *domain.Game) error {
	g.ID = t.s.id()
	t.s.Games[g.ID] = cloneGame(g)
	return nil
}

func (t *MemTx) UpdateGame(g *domain.Game) error {
	t.s.Games[g.ID] = cloneGame(g)
	return nil
}

func (t *MemTx) Participants(gameID int64) ([]domain.Participant, error) {
	var parts []domain.Participant
	for _, p := range t.s.Parts {
		if p.GameID == gameID {
			parts = append(parts, p)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].GameOrder < parts[j].GameOrder })
	return parts, nil
}

func (t *MemTx) ParticipationsByUser(userID int64) ([]domain.Participant, error) {
	var parts []domain.Participant
	for _, p := range t.s.Parts {
		if p.UserID == userID {
			parts = append(parts, p)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].GameID < parts[j].GameID })
	return parts, nil
}

func (t *MemTx) AddParticipant(p *domain.Participant) error {
	t.s.Parts = append(t.s.Parts, *p)
	return nil
}

func (t *MemTx) RemoveParticipant(gameID, userID int64) error {
	kept := t.s.Parts[:0]
	for _, p := range t.s.Parts {
		if p.GameID != gameID || p.UserID != userID {
			kept = append(kept, p)
		}
	}
	t.s.Parts = kept
	return nil
}

func (t *MemTx) SheetByID(id int64) (*domain.Sheet, error) {
	return cloneSheet(t.s.Sheets[id]), nil
}

func (t *MemTx) SheetsByGame(gameID int64) ([]domain.Sheet, error) {
	var sheets []domain.Sheet
	for _, sh := range t.s.Sheets {
		if sh.GameID == gameID {
			sheets = append(sheets, *cloneSheet(sh))
		}
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].ID < sheets[j].ID })
	return sheets, nil
}

func (t *MemTx) PendingSheets(userID int64) ([]domain.Sheet, error) {
	var sheets []domain.Sheet
	for _, sh := range t.s.Sheets {
		if sh.CurrentUserID != nil && *sh.CurrentUserID == userID {
			sheets = append(sheets, *cloneSheet(sh))
		}
	}
	sort.Slice(sheets, func(i, j int) bool {
		return *sheets[i].PendingPosition < *sheets[j].PendingPosition
	})
	return sheets, nil
}

func (t *MemTx) SheetProgressByGame(gameID int64) ([]domain.SheetProgress, error) {
	sheets, _ := t.SheetsByGame(gameID)
	progress := make([]domain.SheetProgress, 0, len(sheets))
	for _, sh := range sheets {
		entries, _ := t.Entries(sh.ID)
		pi := domain.SheetProgress{Sheet: sh, NumEntries: len(entries)}
		if len(entries) > 0 {
			last := entries[len(entries)-1]
			pi.LastEntry = &last
		}
		progress = append(progress, pi)
	}
	return progress, nil
}

func (t *MemTx) CreateSheet(sh *domain.Sheet) error {
	sh.ID = t.s.id()
	t.s.Sheets[sh.ID] = cloneSheet(sh)
	return nil
}

func (t *MemTx) UpdateSheet(sh *domain.Sheet) error {
	t.s.Sheets[sh.ID] = cloneSheet(sh)
	return nil
}

func (t *MemTx) DeleteSheet(id int64) error {
	delete(t.s.Sheets, id)
	for eid, e := range t.s.EntryRows {
		if e.SheetID == id {
			delete(t.s.EntryRows, eid)
		}
	}
	return nil
}

func (t *MemTx) Entries(sheetID int64) ([]domain.Entry, error) {
	var entries []domain.Entry
	for _, e := range t.s.EntryRows {
		if e.SheetID == sheetID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	return entries, nil
}

func (t *MemTx) LastEntry(sheetID int64) (*domain.Entry, error) {
	entries, _ := t.Entries(sheetID)
	if len(entries) == 0 {
		return nil, nil
	}
	last := entries[len(entries)-1]
	return &last, nil
}

func (t *MemTx) EntryByMessage(chatID int64, messageID int) (*domain.Entry, error) {
	var found *domain.Entry
	for _, e := range t.s.EntryRows {
		if e.ChatID == chatID && e.MessageID == messageID {
			if found == nil || e.ID > found.ID {
				found = e
			}
		}
	}
	if found == nil {
		return nil, nil
	}
	copied := *found
	return &copied, nil
}

func (t *MemTx) CreateEntry(e *domain.Entry) error {
	e.ID = t.s.id()
	copied := *e
	t.s.EntryRows[e.ID] = &copied
	return nil
}

func (t *MemTx) UpdateEntryText(id int64, text string) error {
	if e, ok := t.s.EntryRows[id]; ok {
		e.Text = text
	}
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.CurrentSheetID = cloneInt64(u.CurrentSheetID)
	return &c
}

func cloneGame(g *domain.Game) *domain.Game {
	if g == nil {
		return nil
	}
	c := *g
	if g.StartedAt != nil {
		v := *g.StartedAt
		c.StartedAt = &v
	}
	if g.FinishedAt != nil {
		v := *g.FinishedAt
		c.FinishedAt = &v
	}
	if g.Rounds != nil {
		v := *g.Rounds
		c.Rounds = &v
	}
	if g.ResultToken != nil {
		v := *g.ResultToken
		c.ResultToken = &v
	}
	return &c
}

func cloneSheet(sh *domain.Sheet) *domain.Sheet {
	if sh == nil {
		return nil
	}
	c := *sh
	c.CurrentUserID = cloneInt64(sh.CurrentUserID)
	if sh.PendingPosition != nil {
		v := *sh.PendingPosition
		c.PendingPosition = &v
	}
	return &c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
