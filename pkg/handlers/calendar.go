package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
)

const dashboardPreview = 5

// CalendarDay is one numbered cell of the month view
type CalendarDay struct {
	Day    int                `json:"day"`
	Date   string             `json:"date"`
	Shifts []models.ShiftView `json:"shifts"`
}

// CalendarMonth is the month view: the Monday-first grid plus the shifts of each day
type CalendarMonth struct {
	Month string         `json:"month"`
	Grid  scheduler.Grid `json:"grid"`
	Weeks [6][7]int      `json:"weeks"`
	Days  []CalendarDay  `json:"days"`
	Prev  string         `json:"prev"`
	Next  string         `json:"next"`
	Today string         `json:"today"`
}

// Calendar returns the month grid with the shifts scheduled on each day
func (h *Handler) Calendar(c *gin.Context) {
	year, month, err := scheduler.ParseMonth(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, ok := h.snapshot(c)
	if !ok {
		return
	}

	grid := scheduler.BuildMonthGrid(year, month)
	prevYear, prevMonth := scheduler.ShiftMonth(year, month, -1)
	nextYear, nextMonth := scheduler.ShiftMonth(year, month, 1)

	out := CalendarMonth{
		Month: scheduler.MonthKey(year, month),
		Grid:  grid,
		Weeks: grid.Weeks(),
		Days:  make([]CalendarDay, 0, scheduler.DaysInMonth(year, month)),
		Prev:  scheduler.MonthKey(prevYear, prevMonth),
		Next:  scheduler.MonthKey(nextYear, nextMonth),
		Today: s.Today(),
	}
	for day := 1; day <= scheduler.DaysInMonth(year, month); day++ {
		date := scheduler.DateOf(year, month, day)
		shifts := scheduler.ScheduledOn(date, s.Shifts)
		scheduler.SortDayFirst(shifts)
		views, ok := h.views(c, shifts, s)
		if !ok {
			return
		}
		out.Days = append(out.Days, CalendarDay{Day: day, Date: date, Shifts: views})
	}

	c.JSON(http.StatusOK, out)
}

// Dashboard is the desk overview
type Dashboard struct {
	Today             string             `json:"today"`
	TodayShifts       []models.ShiftView `json:"today_shifts"`
	TodayShiftsCount  int                `json:"today_shifts_count"`
	ActiveShifts      []models.ShiftView `json:"active_shifts"`
	UpcomingShifts    []models.ShiftView `json:"upcoming_shifts"`
	UsersCount        int                `json:"users_count"`
	ActiveAssets      []models.AssetView `json:"active_assets"`
	ActiveAssetsCount int                `json:"active_assets_count"`
	HandoversCount    int                `json:"handovers_count"`
	RecentHandovers   []HandoverView     `json:"recent_handovers"`
}

// Dashboard returns today's shifts, open assets and recent handovers
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	s, ok := h.snapshot(c)
	if !ok {
		return
	}

	users, err := h.API.ListUsers(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	assets, err := h.API.ListAssets(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	handovers, err := h.API.ListHandovers(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	today, err := s.OnToday()
	if err != nil {
		h.fail(c, err)
		return
	}
	active, err := s.ActiveShifts()
	if err != nil {
		h.fail(c, err)
		return
	}
	upcoming, err := s.Upcoming(dashboardPreview)
	if err != nil {
		h.fail(c, err)
		return
	}

	d := Dashboard{
		Today:            s.Today(),
		TodayShiftsCount: len(today),
		UsersCount:       len(users),
		HandoversCount:   len(handovers),
	}
	if d.TodayShifts, ok = h.views(c, head(today, dashboardPreview), s); !ok {
		return
	}
	if d.ActiveShifts, ok = h.views(c, active, s); !ok {
		return
	}
	if d.UpcomingShifts, ok = h.views(c, upcoming, s); !ok {
		return
	}

	open := []models.Asset{}
	for _, a := range assets {
		if a.Status == models.AssetActive {
			open = append(open, a)
		}
	}
	d.ActiveAssetsCount = len(open)
	d.ActiveAssets = models.AssetViews(head(open, dashboardPreview))

	sort.SliceStable(handovers, func(i, j int) bool {
		return handovers[i].CreatedAt.After(handovers[j].CreatedAt)
	})
	d.RecentHandovers = labelHandovers(head(handovers, dashboardPreview), s.Shifts)

	c.JSON(http.StatusOK, d)
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
