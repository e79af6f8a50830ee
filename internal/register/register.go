package register

import (
	"fmt"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/time-register/backend/internal/config"
	"github.com/sysu-ecnc-dev/time-register/backend/internal/domain"
)

// Store 是打卡核心所依赖的数据访问接口，由 repository 实现
type Store interface {
	GetLatestTimeSlot(userID int64, date time.Time) (*domain.TimeSlot, error)
	GetTimeSlotByID(id int64) (*domain.TimeSlot, error)
	GetTimeSlotsByUserAndDate(userID int64, date time.Time) ([]*domain.TimeSlot, error)
	CreateTimeSlot(slot *domain.TimeSlot) error
	UpdateTimeSlot(slot *domain.TimeSlot) error
	DeleteTimeSlot(id int64) error
	UpdateTimeSlotDurations(slots []*domain.TimeSlot) error
	HasPendingTimeSlots(userID int64, from time.Time, to time.Time) (bool, error)
	GetActiveUserWorkSchedule(userID int64, date time.Time) (*domain.UserWorkSchedule, error)
	GetWorkScheduleDay(workScheduleID int64, weekday int32) (*domain.WorkScheduleDay, error)
	GetProjectByID(id int64) (*domain.Project, error)
	CreateUserExtraSegment(segment *domain.UserExtraSegment) error
}

// Result 是各个打卡操作返回给调用方的结果，可以直接序列化进 HTTP 响应
type Result struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Slot    *domain.TimeSlot `json:"slot,omitempty"`
}

type Manager struct {
	store   Store
	loc     *time.Location
	margin  time.Duration
	minSlot time.Duration

	locks sync.Map // userID -> *sync.Mutex
}

func NewManager(cfg *config.Config, loc *time.Location, store Store) *Manager {
	return &Manager{
		store:   store,
		loc:     loc,
		margin:  time.Duration(cfg.Register.MarginMinutes) * time.Minute,
		minSlot: time.Duration(cfg.Register.MinSlotSeconds) * time.Second,
	}
}

// lockUser 保证同一个用户的「查询-修改」序列串行执行，
// 防止同一用户的并发打卡同时观察到同一个未结束的时间段
func (m *Manager) lockUser(userID int64) func() {
	v, _ := m.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// dateOf 返回 t 在配置时区下所属的日期（当天零点）
func (m *Manager) dateOf(t time.Time) time.Time {
	t = t.In(m.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, m.loc)
}

// isoWeekday 把 time.Weekday 转换成 1-7（1 表示周一）
func isoWeekday(t time.Time) int32 {
	weekday := int32(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return weekday
}

// timeOfDayOn 把 HH:MM:SS 形式的时刻放到 date 当天
func timeOfDayOn(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04:05", timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("时刻 %s 格式错误: %w", timeOfDay, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

// Location 返回打卡核心使用的时区，供调用方换算本地日期
func (m *Manager) Location() *time.Location {
	return m.loc
}
