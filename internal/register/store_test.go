package register

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

// memoryStore 是测试用的内存版 Store 实现，
// 未命中时返回 sql.ErrNoRows，与 repository 的行为一致
type memoryStore struct {
	mu sync.Mutex

	nextSlotID    int64
	nextSegmentID int64

	slots       map[int64]*domain.TimeSlot
	assignments []*domain.UserWorkSchedule
	days        map[int64][]*domain.WorkScheduleDay // workScheduleID -> days
	projects    map[int64]*domain.Project
	segments    []*domain.UserExtraSegment

	segmentErr error // 注入额外时间段创建失败
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		slots:    make(map[int64]*domain.TimeSlot),
		days:     make(map[int64][]*domain.WorkScheduleDay),
		projects: make(map[int64]*domain.Project),
	}
}

func (s *memoryStore) GetLatestTimeSlot(userID int64, date time.Time) (*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *domain.TimeSlot
	for _, slot := range s.slots {
		if slot.UserID != userID || !slot.Date.Equal(date) {
			continue
		}
		if latest == nil || slot.Ordinal > latest.Ordinal {
			latest = slot
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return latest, nil
}

func (s *memoryStore) GetTimeSlotByID(id int64) (*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, exists := s.slots[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return slot, nil
}

func (s *memoryStore) GetTimeSlotsByUserAndDate(userID int64, date time.Time) ([]*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]*domain.TimeSlot, 0)
	for _, slot := range s.slots {
		if slot.UserID == userID && slot.Date.Equal(date) {
			slots = append(slots, slot)
		}
	}
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slots[j].Ordinal < slots[i].Ordinal {
				slots[i], slots[j] = slots[j], slots[i]
			}
		}
	}
	return slots, nil
}

func (s *memoryStore) CreateTimeSlot(slot *domain.TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSlotID++
	slot.ID = s.nextSlotID
	slot.CreatedAt = time.Now()
	s.slots[slot.ID] = slot
	return nil
}

func (s *memoryStore) UpdateTimeSlot(slot *domain.TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.slots[slot.ID]; !exists {
		return sql.ErrNoRows
	}
	slot.Version++
	s.slots[slot.ID] = slot
	return nil
}

func (s *memoryStore) DeleteTimeSlot(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, id)
	return nil
}

func (s *memoryStore) UpdateTimeSlotDurations(slots []*domain.TimeSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range slots {
		if _, exists := s.slots[slot.ID]; !exists {
			return sql.ErrNoRows
		}
		s.slots[slot.ID] = slot
	}
	return nil
}

func (s *memoryStore) HasPendingTimeSlots(userID int64, from time.Time, to time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range s.slots {
		if slot.UserID != userID || slot.Justification != domain.JustificationPending {
			continue
		}
		if !slot.Date.Before(from) && !slot.Date.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) GetActiveUserWorkSchedule(userID int64, date time.Time) (*domain.UserWorkSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, assignment := range s.assignments {
		if assignment.UserID != userID {
			continue
		}
		if !date.Before(assignment.StartDate) && !date.After(assignment.EndDate) {
			return assignment, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memoryStore) GetWorkScheduleDay(workScheduleID int64, weekday int32) (*domain.WorkScheduleDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, day := range s.days[workScheduleID] {
		if day.Weekday == weekday {
			return day, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memoryStore) GetProjectByID(id int64) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, exists := s.projects[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return project, nil
}

func (s *memoryStore) CreateUserExtraSegment(segment *domain.UserExtraSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.segmentErr != nil {
		return s.segmentErr
	}
	s.nextSegmentID++
	segment.ID = s.nextSegmentID
	s.segments = append(s.segments, segment)
	return nil
}

var errSegmentRejected = errors.New("额外时间段创建失败")
