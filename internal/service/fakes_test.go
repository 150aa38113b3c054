package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/eventbus"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/queue"
)

var testNow = time.Date(2025, 12, 12, 20, 30, 0, 0, time.UTC)

// store is an in-memory stand-in for every repository the services depend on.
type store struct {
	mu          sync.Mutex
	events      map[uint]domain.Event
	guests      map[uint]domain.Guest
	prizes      map[uint]domain.Prize
	entries     map[uint]domain.RaffleEntry
	attendances map[uint]domain.Attendance
	logs        []domain.RaffleLog
	nextID      uint

	commitErrs []error
	createErr  error
	scanTimes  []time.Time
}

func newStore() *store {
	return &store{
		events:      map[uint]domain.Event{},
		guests:      map[uint]domain.Guest{},
		prizes:      map[uint]domain.Prize{},
		entries:     map[uint]domain.RaffleEntry{},
		attendances: map[uint]domain.Attendance{},
		nextID:      100,
	}
}

func (s *store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *store) addEvent(e domain.Event) domain.Event {
	if e.Status == "" {
		e.Status = domain.EventStatusActive
	}
	s.events[e.ID] = e
	return e
}

func (s *store) addGuest(g domain.Guest) domain.Guest {
	if g.ID == 0 {
		g.ID = s.id()
	}
	s.guests[g.ID] = g
	return g
}

func (s *store) addPrize(p domain.Prize) domain.Prize {
	if p.ID == 0 {
		p.ID = s.id()
	}
	p.Active = true
	if p.InitialStock == 0 {
		p.InitialStock = p.Stock
	}
	s.prizes[p.ID] = p
	return p
}

func (s *store) addEntry(guestID, prizeID uint, status domain.EntryStatus) domain.RaffleEntry {
	pid := prizeID
	e := domain.RaffleEntry{
		ID:        s.id(),
		EventID:   s.prizes[prizeID].EventID,
		GuestID:   guestID,
		PrizeID:   &pid,
		Status:    status,
		CreatedAt: testNow,
	}
	s.entries[e.ID] = e
	return e
}

func (s *store) attend(eventID, guestID uint) {
	id := s.id()
	s.attendances[id] = domain.Attendance{ID: id, EventID: eventID, GuestID: guestID, ScanCount: 1}
}

func (s *store) withGuest(e domain.RaffleEntry) domain.RaffleEntry {
	if g, ok := s.guests[e.GuestID]; ok {
		e.Guest = &g
	}
	return e
}

func (s *store) sortedEntries() []domain.RaffleEntry {
	out := make([]domain.RaffleEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// raffle repository

type raffleRepo struct{ *store }

func (r raffleRepo) CreateEntries(_ context.Context, entries []domain.RaffleEntry) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := 0
	for _, e := range entries {
		if r.findEntry(e.GuestID, *e.PrizeID) != nil {
			continue
		}
		e.ID = r.id()
		r.entries[e.ID] = e
		created++
	}
	return created, nil
}

func (r raffleRepo) CreateEntry(_ context.Context, e domain.RaffleEntry) (domain.RaffleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return domain.RaffleEntry{}, r.createErr
	}
	if r.findEntry(e.GuestID, *e.PrizeID) != nil {
		return domain.RaffleEntry{}, ErrAlreadyEntered
	}
	e.ID = r.id()
	r.entries[e.ID] = e
	return e, nil
}

func (r raffleRepo) findEntry(guestID, prizeID uint) *domain.RaffleEntry {
	for _, e := range r.entries {
		if e.GuestID == guestID && e.BelongsTo(prizeID) {
			return &e
		}
	}
	return nil
}

func (r raffleRepo) FindEntryByID(_ context.Context, id uint) (domain.RaffleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return domain.RaffleEntry{}, ErrEntryNotFound
	}
	return r.withGuest(e), nil
}

func (r raffleRepo) FindEntry(_ context.Context, guestID, prizeID uint) (domain.RaffleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.findEntry(guestID, prizeID)
	if e == nil {
		return domain.RaffleEntry{}, ErrEntryNotFound
	}
	return r.withGuest(*e), nil
}

func (r raffleRepo) FindEntriesByPrize(_ context.Context, prizeID uint, status domain.EntryStatus) ([]domain.RaffleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.RaffleEntry
	for _, e := range r.sortedEntries() {
		if e.BelongsTo(prizeID) && (status == "" || e.Status == status) {
			out = append(out, r.withGuest(e))
		}
	}
	return out, nil
}

func (r raffleRepo) EnteredGuestIDs(_ context.Context, prizeID uint) (map[uint]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[uint]struct{}{}
	for _, e := range r.entries {
		if e.BelongsTo(prizeID) {
			out[e.GuestID] = struct{}{}
		}
	}
	return out, nil
}

func (r raffleRepo) OtherPrizeWinners(_ context.Context, eventID, prizeID uint) (map[uint]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[uint]struct{}{}
	for _, e := range r.entries {
		if e.EventID != eventID || !e.IsWinner() || e.BelongsTo(prizeID) {
			continue
		}
		if r.prizes[*e.PrizeID].IsGeneralPool() {
			continue
		}
		out[e.GuestID] = struct{}{}
	}
	return out, nil
}

func (r raffleRepo) HasWonOtherPrize(_ context.Context, guestID uint, excludePrizeID *uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.GuestID != guestID || !e.IsWinner() {
			continue
		}
		if excludePrizeID != nil && e.BelongsTo(*excludePrizeID) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r raffleRepo) HasIMEXWinnerInEvent(_ context.Context, eventID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.EventID == eventID && e.IsWinner() && r.guests[e.GuestID].Company == domain.CompanyIMEX {
			return true, nil
		}
	}
	return false, nil
}

func (r raffleRepo) CommitDraw(_ context.Context, d domain.DrawCommit) (domain.RaffleEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.commitErrs) > 0 {
		err := r.commitErrs[0]
		r.commitErrs = r.commitErrs[1:]
		if err != nil {
			return domain.RaffleEntry{}, 0, err
		}
	}

	p := r.prizes[d.PrizeID]
	if p.Stock <= 0 {
		return domain.RaffleEntry{}, 0, ErrStockExhausted
	}
	e, ok := r.entries[d.EntryID]
	if !ok || !e.IsPending() || !e.BelongsTo(d.PrizeID) {
		return domain.RaffleEntry{}, 0, ErrConcurrentDrawConflict
	}
	if d.Exclusive && r.exclusiveConflict(d, e) {
		return domain.RaffleEntry{}, 0, ErrConcurrentDrawConflict
	}

	drawnAt := d.DrawnAt
	e.Status = domain.EntryStatusWon
	e.DrawnAt = &drawnAt
	r.entries[e.ID] = e
	p.Stock--
	r.prizes[p.ID] = p
	r.logs = append(r.logs, domain.RaffleLog{
		ID: r.id(), DrawID: d.DrawID, EventID: d.EventID, PrizeID: d.PrizeID, GuestID: e.GuestID,
		EntryID: e.ID, RaffleType: d.RaffleType, Seed: d.Seed, Candidates: d.Candidates, Confirmed: true,
	})

	return e, p.Stock, nil
}

func (r raffleRepo) exclusiveConflict(d domain.DrawCommit, e domain.RaffleEntry) bool {
	imex := r.guests[e.GuestID].Company == domain.CompanyIMEX
	for _, w := range r.entries {
		if !w.IsWinner() || w.EventID != d.EventID {
			continue
		}
		if w.GuestID == e.GuestID && !w.BelongsTo(d.PrizeID) && !r.prizes[*w.PrizeID].IsGeneralPool() {
			return true
		}
		if imex && r.guests[w.GuestID].Company == domain.CompanyIMEX {
			return true
		}
	}
	return false
}

func (r raffleRepo) CancelDraw(_ context.Context, entryID uint) (domain.RaffleEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[entryID]
	if !ok {
		return domain.RaffleEntry{}, 0, ErrEntryNotFound
	}
	if !e.IsWinner() {
		return domain.RaffleEntry{}, 0, ErrEntryNotWon
	}

	e.Status = domain.EntryStatusPending
	e.DrawnAt = nil
	r.entries[e.ID] = e
	p := r.prizes[*e.PrizeID]
	p.Stock++
	r.prizes[p.ID] = p
	for i := range r.logs {
		if r.logs[i].PrizeID == p.ID && r.logs[i].GuestID == e.GuestID {
			r.logs[i].Confirmed = false
		}
	}

	return e, p.Stock, nil
}

func (r raffleRepo) DeleteEntry(_ context.Context, id uint) (domain.RaffleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return domain.RaffleEntry{}, ErrEntryNotFound
	}
	if e.IsWinner() {
		return domain.RaffleEntry{}, ErrCannotDeleteWinner
	}
	delete(r.entries, id)
	return e, nil
}

func (r raffleRepo) MarkDelivered(_ context.Context, id uint, by *uint, at time.Time) (domain.RaffleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return domain.RaffleEntry{}, ErrEntryNotFound
	}
	if !e.IsWinner() {
		return domain.RaffleEntry{}, ErrEntryNotWon
	}
	e.PrizeDelivered = true
	e.DeliveredAt = &at
	e.DeliveredBy = by
	r.entries[id] = e
	return e, nil
}

func (r raffleRepo) FindLogsByEvent(_ context.Context, eventID uint) ([]domain.RaffleLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.RaffleLog
	for _, l := range r.logs {
		if l.EventID == eventID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r raffleRepo) ResetEvent(_ context.Context, eventID uint) (domain.RaffleReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := domain.RaffleReset{EventID: eventID}
	for id, e := range r.entries {
		if e.EventID != eventID {
			continue
		}
		if e.IsWinner() {
			p := r.prizes[*e.PrizeID]
			p.Stock++
			r.prizes[p.ID] = p
			res.StockRestored++
		}
		delete(r.entries, id)
		res.EntriesDeleted++
	}

	kept := r.logs[:0]
	for _, l := range r.logs {
		if l.EventID == eventID {
			res.LogsDeleted++
			continue
		}
		kept = append(kept, l)
	}
	r.logs = kept

	return res, nil
}

// prize repository

type prizeRepo struct{ *store }

func (r prizeRepo) Create(_ context.Context, p domain.Prize) (domain.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.id()
	r.prizes[p.ID] = p
	return p, nil
}

func (r prizeRepo) FindByID(_ context.Context, id uint) (domain.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.prizes[id]
	if !ok {
		return domain.Prize{}, ErrPrizeNotFound
	}
	return p, nil
}

func (r prizeRepo) FindGeneralPool(_ context.Context, eventID uint) (domain.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.prizes {
		if p.EventID == eventID && p.IsGeneralPool() {
			return p, nil
		}
	}
	return domain.Prize{}, ErrPrizeNotFound
}

func (r prizeRepo) FindByEvent(_ context.Context, eventID uint, activeOnly, includeGeneral bool) ([]domain.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Prize
	for _, p := range r.prizes {
		if p.EventID != eventID || (activeOnly && !p.Active) || (!includeGeneral && p.IsGeneralPool()) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r prizeRepo) Update(_ context.Context, p domain.Prize) (domain.Prize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.prizes[p.ID]
	if !ok {
		return domain.Prize{}, ErrPrizeNotFound
	}
	cur.Name, cur.Description, cur.Category, cur.Value = p.Name, p.Description, p.Category, p.Value
	r.prizes[p.ID] = cur
	return cur, nil
}

func (r prizeRepo) UpdateImage(_ context.Context, id uint, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.prizes[id]
	p.Image = image
	r.prizes[id] = p
	return nil
}

func (r prizeRepo) Deactivate(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.prizes[id]
	p.Active = false
	r.prizes[id] = p
	return nil
}

// guest repository

type guestRepo struct{ *store }

func (r guestRepo) Create(_ context.Context, g domain.Guest) (domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.guests {
		if o.EventID == g.EventID && o.EmployeeNumber == g.EmployeeNumber {
			return domain.Guest{}, ErrGuestExists
		}
	}
	g.ID = r.id()
	r.guests[g.ID] = g
	return g, nil
}

func (r guestRepo) FindByID(_ context.Context, id uint) (domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[id]
	if !ok {
		return domain.Guest{}, ErrGuestNotFound
	}
	return g, nil
}

func (r guestRepo) find(match func(domain.Guest) bool) (domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.guests {
		if match(g) {
			return g, nil
		}
	}
	return domain.Guest{}, ErrGuestNotFound
}

func (r guestRepo) FindByQRCode(_ context.Context, eventID uint, qr string) (domain.Guest, error) {
	return r.find(func(g domain.Guest) bool { return g.EventID == eventID && g.QRCode == qr })
}

func (r guestRepo) FindByEmployeeNumber(_ context.Context, eventID uint, number string) (domain.Guest, error) {
	return r.find(func(g domain.Guest) bool { return g.EventID == eventID && g.EmployeeNumber == number })
}

func (r guestRepo) FindByEvent(_ context.Context, eventID uint) ([]domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Guest
	for _, g := range r.guests {
		if g.EventID == eventID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r guestRepo) Update(_ context.Context, g domain.Guest) (domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.guests[g.ID]; !ok {
		return domain.Guest{}, ErrGuestNotFound
	}
	r.guests[g.ID] = g
	return g, nil
}

func (r guestRepo) MarkEmailSent(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guests[id]
	if !ok {
		return ErrGuestNotFound
	}
	g.EmailSent = true
	r.guests[id] = g
	return nil
}

func (r guestRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.guests[id]; !ok {
		return ErrGuestNotFound
	}
	for _, e := range r.entries {
		if e.GuestID == id && e.IsWinner() {
			return ErrGuestIsWinner
		}
	}
	for eid, e := range r.entries {
		if e.GuestID == id {
			delete(r.entries, eid)
		}
	}
	for aid, a := range r.attendances {
		if a.GuestID == id {
			delete(r.attendances, aid)
		}
	}
	delete(r.guests, id)
	return nil
}

func (r guestRepo) FindByCredentials(_ context.Context, eventID uint, credentials string) (domain.Guest, error) {
	return r.find(func(g domain.Guest) bool {
		if g.EventID != eventID {
			return false
		}
		for _, sep := range []string{"-", "", " "} {
			if g.Company+sep+g.EmployeeNumber == credentials {
				return true
			}
		}
		return false
	})
}

// event repository

type eventRepo struct{ *store }

func (r eventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return domain.Event{}, ErrEventNotFound
	}
	return e, nil
}

// attendance repository

type attendanceRepo struct{ *store }

func (r attendanceRepo) RecordScan(_ context.Context, eventID, guestID uint, scannedBy string, metadata map[string]interface{}, at time.Time, maxScans int) (domain.Attendance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.attendances {
		if a.EventID == eventID && a.GuestID == guestID {
			if a.ScanCount >= maxScans {
				return domain.Attendance{}, false, ErrScanLimitExceeded
			}
			a.ScanCount++
			a.LastScannedAt = at
			r.attendances[id] = a
			return a, false, nil
		}
	}

	a := domain.Attendance{
		ID: r.id(), EventID: eventID, GuestID: guestID, ScannedAt: at, ScannedBy: scannedBy,
		ScanCount: 1, LastScannedAt: at, ScanMetadata: metadata,
	}
	r.attendances[a.ID] = a
	return a, true, nil
}

func (r attendanceRepo) FindByID(_ context.Context, id uint) (domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.attendances[id]
	if !ok {
		return domain.Attendance{}, ErrAttendanceNotFound
	}
	return a, nil
}

func (r attendanceRepo) FindByEvent(_ context.Context, eventID uint) ([]domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Attendance
	for _, a := range r.attendances {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r attendanceRepo) FindByGuest(_ context.Context, eventID, guestID uint) (domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.attendances {
		if a.EventID == eventID && a.GuestID == guestID {
			return a, nil
		}
	}
	return domain.Attendance{}, ErrAttendanceNotFound
}

func (r attendanceRepo) Exists(_ context.Context, eventID, guestID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.attendances {
		if a.EventID == eventID && a.GuestID == guestID {
			return true, nil
		}
	}
	return false, nil
}

func (r attendanceRepo) GuestIDs(_ context.Context, eventID uint) (map[uint]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[uint]struct{}{}
	for _, a := range r.attendances {
		if a.EventID == eventID {
			out[a.GuestID] = struct{}{}
		}
	}
	return out, nil
}

func (r attendanceRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.attendances, id)
	return nil
}

// side effects

type firstPicker struct{ calls int }

func (p *firstPicker) Pick(n int) (int, int64, error) {
	p.calls++
	if n <= 0 {
		return 0, 0, errors.New("empty")
	}
	return 0, 42, nil
}

type recordingNotifier struct{ sent []domain.Notification }

func (n *recordingNotifier) Dispatch(_ context.Context, msg domain.Notification) {
	n.sent = append(n.sent, msg)
}

type recordingAuditor struct {
	mu      sync.Mutex
	records []domain.ChangeRecord
}

func (a *recordingAuditor) Record(_ context.Context, rec domain.ChangeRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ uint, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
}

// gatePicker holds every pick until parties callers have arrived, then always returns the first candidate.
type gatePicker struct {
	mu      sync.Mutex
	parties int
	arrived int
	open    chan struct{}
}

func newGatePicker(parties int) *gatePicker {
	return &gatePicker{parties: parties, open: make(chan struct{})}
}

func (p *gatePicker) Pick(n int) (int, int64, error) {
	p.mu.Lock()
	p.arrived++
	if p.arrived == p.parties {
		close(p.open)
	}
	p.mu.Unlock()

	<-p.open
	return 0, 7, nil
}

type recordingTasks struct {
	tasks []*queue.Task
	err   error
	// failAfter makes every publish after the first failAfter ones fail with err.
	failAfter int
}

func (q *recordingTasks) Publish(_ context.Context, task *queue.Task) error {
	if q.err != nil && len(q.tasks) >= q.failAfter {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingTasks) notifications(t require.TestingT) []domain.Notification {
	out := make([]domain.Notification, 0, len(q.tasks))
	for _, task := range q.tasks {
		var n domain.Notification
		require.NoError(t, task.Decode(&n))
		out = append(out, n)
	}
	return out
}

var _ Publisher = (*eventbus.Bus)(nil)
