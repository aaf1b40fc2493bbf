package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository"
)

// fakeStore is an in-memory stand-in for the repository layer. Its purchase
// Create claims ticket ranges under a mutex the same way the real storage
// claims them in a single statement, so the numbering invariants hold under
// concurrent use.
type fakeStore struct {
	mu        sync.Mutex
	entities  map[uint]domain.Entity
	counters  map[uint]int
	sessions  map[uint]domain.Session
	purchases map[uint]domain.TicketPurchase
	raffles   map[uint]domain.Raffle
	lastID    uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entities:  make(map[uint]domain.Entity),
		counters:  make(map[uint]int),
		sessions:  make(map[uint]domain.Session),
		purchases: make(map[uint]domain.TicketPurchase),
		raffles:   make(map[uint]domain.Raffle),
	}
}

func (s *fakeStore) nextID() uint {
	s.lastID++
	return s.lastID
}

func (s *fakeStore) addEntity(entity domain.Entity) domain.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity.ID = s.nextID()
	s.entities[entity.ID] = entity
	s.counters[entity.ID] = 0

	return entity
}

// User repository.

type fakeUserStore struct {
	mu          sync.Mutex
	users       map[uint]domain.User
	assignments map[uint][]uint
	lastID      uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:       make(map[uint]domain.User),
		assignments: make(map[uint][]uint),
	}
}

func (s *fakeUserStore) Create(ctx context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domain.User{}, repository.ErrUsernameExists
		}
	}

	s.lastID++
	user.ID = s.lastID
	s.users[user.ID] = user

	return user, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id uint) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (s *fakeUserStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) FindAll(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Password = passwordHash
	s.users[id] = user

	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	delete(s.assignments, id)

	return nil
}

func (s *fakeUserStore) AssignEntity(ctx context.Context, userID, entityID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.assignments[userID] {
		if id == entityID {
			return nil
		}
	}
	s.assignments[userID] = append(s.assignments[userID], entityID)

	return nil
}

func (s *fakeUserStore) UnassignEntity(ctx context.Context, userID, entityID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.assignments[userID]
	for i, id := range ids {
		if id == entityID {
			s.assignments[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}

	return nil
}

func (s *fakeUserStore) AssignedEntityIDs(ctx context.Context, userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]uint(nil), s.assignments[userID]...), nil
}

// Entity repository.

func (s *fakeStore) Create(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entities {
		if existing.Name == entity.Name {
			return domain.Entity{}, repository.ErrEntityExists
		}
	}

	entity.ID = s.nextID()
	s.entities[entity.ID] = entity
	s.counters[entity.ID] = 0

	return entity, nil
}

func (s *fakeStore) FindByID(ctx context.Context, id uint) (domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, ok := s.entities[id]
	if !ok {
		return domain.Entity{}, repository.ErrEntityNotFound
	}

	return entity, nil
}

func (s *fakeStore) FindAll(ctx context.Context) ([]domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entities := make([]domain.Entity, 0, len(s.entities))
	for _, entity := range s.entities {
		entities = append(entities, entity)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID < entities[j].ID })

	return entities, nil
}

func (s *fakeStore) Update(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[entity.ID]; !ok {
		return domain.Entity{}, repository.ErrEntityNotFound
	}
	s.entities[entity.ID] = entity

	return entity, nil
}

func (s *fakeStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[id]; !ok {
		return repository.ErrEntityNotFound
	}
	delete(s.entities, id)
	delete(s.counters, id)

	return nil
}

func (s *fakeStore) CounterValue(ctx context.Context, entityID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.counters[entityID]
	if !ok {
		return 0, repository.ErrCounterNotFound
	}

	return value, nil
}

func (s *fakeStore) ResetCounter(ctx context.Context, entityID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[entityID] = 0

	return nil
}

// Session repository.

type fakeSessionStore struct {
	*fakeStore
}

func (s *fakeSessionStore) Start(ctx context.Context, session domain.Session) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sessions {
		if existing.EntityID == session.EntityID && existing.Status == domain.SessionActive {
			return domain.Session{}, repository.ErrSessionActive
		}
	}

	s.counters[session.EntityID] = 0
	session.ID = s.nextID()
	s.sessions[session.ID] = session

	return session, nil
}

func (s *fakeSessionStore) Close(ctx context.Context, id uint) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, repository.ErrSessionNotFound
	}
	if session.Status != domain.SessionActive {
		return domain.Session{}, repository.ErrSessionNotActive
	}

	session.TicketsSold, session.TotalRevenue = s.sessionTotals(id)
	endTicket := session.StartTicketNumber - 1
	for _, p := range s.purchases {
		if p.SessionID != nil && *p.SessionID == id && p.EndTicketNumber > endTicket {
			endTicket = p.EndTicketNumber
		}
	}
	now := time.Now()
	session.EndedAt = &now
	session.EndTicketNumber = &endTicket
	session.Status = domain.SessionClosed
	s.sessions[id] = session

	return session, nil
}

func (s *fakeSessionStore) RefreshStats(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.TicketsSold, session.TotalRevenue = s.sessionTotals(id)
	s.sessions[id] = session

	return nil
}

// sessionTotals must be called with the mutex held.
func (s *fakeStore) sessionTotals(id uint) (int, float64) {
	var sold int
	var revenue float64
	for _, p := range s.purchases {
		if p.SessionID != nil && *p.SessionID == id {
			sold += p.TicketCount
			revenue += p.TotalPrice
		}
	}

	return sold, revenue
}

func (s *fakeSessionStore) FindByID(ctx context.Context, id uint) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, repository.ErrSessionNotFound
	}

	return session, nil
}

func (s *fakeSessionStore) FindActiveByEntityID(ctx context.Context, entityID uint) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.EntityID == entityID && session.Status == domain.SessionActive {
			return session, nil
		}
	}

	return domain.Session{}, repository.ErrSessionNotFound
}

func (s *fakeSessionStore) FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []domain.Session
	for _, session := range s.sessions {
		if session.UserID == userID && session.Status == domain.SessionActive {
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}

func (s *fakeSessionStore) FindByFilter(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []domain.Session
	for _, session := range s.sessions {
		if session.EntityID != filter.EntityID {
			continue
		}
		if filter.Status != "all" && filter.Status != "" && string(session.Status) != filter.Status {
			continue
		}
		if filter.StartDate != nil && session.StartedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && session.StartedAt.After(*filter.EndDate) {
			continue
		}
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })

	return sessions, nil
}

// Purchase repository.

type fakePurchaseStore struct {
	*fakeStore
}

func (s *fakePurchaseStore) Create(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.counters[purchase.EntityID]; !ok {
		return domain.TicketPurchase{}, repository.ErrCounterNotFound
	}

	last := s.counters[purchase.EntityID]
	purchase.StartTicketNumber = last + 1
	purchase.EndTicketNumber = last + purchase.TicketCount
	s.counters[purchase.EntityID] = purchase.EndTicketNumber

	purchase.ID = s.nextID()
	purchase.CreatedAt = time.Now()
	purchase.IsPaid = false
	purchase.Tickets = make([]domain.RaffleTicket, 0, purchase.TicketCount)
	for n := purchase.StartTicketNumber; n <= purchase.EndTicketNumber; n++ {
		purchase.Tickets = append(purchase.Tickets, domain.RaffleTicket{
			ID:           s.nextID(),
			TicketNumber: n,
			PurchaseID:   purchase.ID,
		})
	}
	s.purchases[purchase.ID] = purchase

	return purchase, nil
}

func (s *fakePurchaseStore) FindByID(ctx context.Context, id uint) (domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchase, ok := s.purchases[id]
	if !ok {
		return domain.TicketPurchase{}, repository.ErrPurchaseNotFound
	}

	return purchase, nil
}

func (s *fakePurchaseStore) FindAll(ctx context.Context) ([]domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchases := make([]domain.TicketPurchase, 0, len(s.purchases))
	for _, purchase := range s.purchases {
		purchases = append(purchases, purchase)
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].ID < purchases[j].ID })

	return purchases, nil
}

func (s *fakePurchaseStore) FindByEntityID(ctx context.Context, entityID uint) ([]domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purchases []domain.TicketPurchase
	for _, purchase := range s.purchases {
		if purchase.EntityID == entityID {
			purchases = append(purchases, purchase)
		}
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].ID < purchases[j].ID })

	return purchases, nil
}

func (s *fakePurchaseStore) FindBySessionID(ctx context.Context, sessionID uint) ([]domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purchases []domain.TicketPurchase
	for _, purchase := range s.purchases {
		if purchase.SessionID != nil && *purchase.SessionID == sessionID {
			purchases = append(purchases, purchase)
		}
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].ID < purchases[j].ID })

	return purchases, nil
}

func (s *fakePurchaseStore) FindByEntityAndDateRange(ctx context.Context, entityID uint, startDate, endDate *time.Time) ([]domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purchases []domain.TicketPurchase
	for _, purchase := range s.purchases {
		if purchase.EntityID != entityID {
			continue
		}
		if startDate != nil && purchase.CreatedAt.Before(*startDate) {
			continue
		}
		if endDate != nil && purchase.CreatedAt.After(*endDate) {
			continue
		}
		purchases = append(purchases, purchase)
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].ID < purchases[j].ID })

	return purchases, nil
}

func (s *fakePurchaseStore) FindTicketsByEntityID(ctx context.Context, entityID uint) ([]domain.RaffleTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tickets []domain.RaffleTicket
	for _, purchase := range s.purchases {
		if purchase.EntityID == entityID {
			tickets = append(tickets, purchase.Tickets...)
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].TicketNumber < tickets[j].TicketNumber })

	return tickets, nil
}

func (s *fakePurchaseStore) UpdatePaymentStatus(ctx context.Context, id uint, isPaid bool) (domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchase, ok := s.purchases[id]
	if !ok {
		return domain.TicketPurchase{}, repository.ErrPurchaseNotFound
	}
	purchase.IsPaid = isPaid
	s.purchases[id] = purchase

	return purchase, nil
}

func (s *fakePurchaseStore) UpdateBuyerName(ctx context.Context, id uint, buyerName string) (domain.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purchase, ok := s.purchases[id]
	if !ok {
		return domain.TicketPurchase{}, repository.ErrPurchaseNotFound
	}
	purchase.BuyerName = buyerName
	s.purchases[id] = purchase

	return purchase, nil
}

func (s *fakePurchaseStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.purchases[id]; !ok {
		return repository.ErrPurchaseNotFound
	}
	delete(s.purchases, id)

	return nil
}

// Raffle repository.

type fakeRaffleStore struct {
	*fakeStore
}

func (s *fakeRaffleStore) Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raffle.ID = s.nextID()
	s.raffles[raffle.ID] = raffle

	return raffle, nil
}

func (s *fakeRaffleStore) FindByID(ctx context.Context, id uint) (domain.Raffle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raffle, ok := s.raffles[id]
	if !ok {
		return domain.Raffle{}, repository.ErrRaffleNotFound
	}

	return raffle, nil
}

func (s *fakeRaffleStore) FindAll(ctx context.Context) ([]domain.Raffle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raffles := make([]domain.Raffle, 0, len(s.raffles))
	for _, raffle := range s.raffles {
		raffles = append(raffles, raffle)
	}
	sort.Slice(raffles, func(i, j int) bool { return raffles[i].ID < raffles[j].ID })

	return raffles, nil
}

func (s *fakeRaffleStore) FindByEntityID(ctx context.Context, entityID uint) ([]domain.Raffle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raffles []domain.Raffle
	for _, raffle := range s.raffles {
		if raffle.EntityID == entityID {
			raffles = append(raffles, raffle)
		}
	}
	sort.Slice(raffles, func(i, j int) bool { return raffles[i].ID < raffles[j].ID })

	return raffles, nil
}

func (s *fakeRaffleStore) Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.raffles[raffle.ID]; !ok {
		return domain.Raffle{}, repository.ErrRaffleNotFound
	}
	s.raffles[raffle.ID] = raffle

	return raffle, nil
}

func (s *fakeRaffleStore) RecordWinner(ctx context.Context, id uint, winningTicketNumber int, winnerPurchaseID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raffle, ok := s.raffles[id]
	if !ok {
		return repository.ErrRaffleNotFound
	}
	if !raffle.IsActive {
		return repository.ErrRaffleNotActive
	}
	raffle.WinningTicketNumber = &winningTicketNumber
	raffle.WinnerID = &winnerPurchaseID
	raffle.IsActive = false
	s.raffles[id] = raffle

	return nil
}

func (s *fakeRaffleStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.raffles[id]; !ok {
		return repository.ErrRaffleNotFound
	}
	delete(s.raffles, id)

	return nil
}
