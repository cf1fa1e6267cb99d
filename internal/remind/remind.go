// Package remind turns today's board into a desktop notification.
package remind

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gen2brain/beeep"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

type Item struct {
	ID    model.TaskID `json:"id"`
	Title string       `json:"title"`
	Line  model.Line   `json:"line"`
	Order int          `json:"order"`
}

// Digest is what is left to do on one day.
type Digest struct {
	DateKey   string `json:"dateKey"`
	Scheduled int    `json:"scheduled"`
	Done      int    `json:"done"`
	Open      []Item `json:"open"`
}

// Build lists tasks scheduled on todayKey that have no check for it,
// ordered by line and then by order.
func Build(tasks []model.Task, todayKey string) Digest {
	d := Digest{DateKey: todayKey, Open: []Item{}}
	weekday := datekey.WeekdayOf(todayKey)

	for _, t := range tasks {
		if !t.ScheduledOn(todayKey, weekday) {
			continue
		}
		d.Scheduled++
		if _, ok := t.CheckFor(todayKey); ok {
			d.Done++
			continue
		}
		d.Open = append(d.Open, Item{ID: t.ID, Title: t.Title, Line: t.Line, Order: t.Order})
	}

	sort.SliceStable(d.Open, func(i, j int) bool {
		if d.Open[i].Line != d.Open[j].Line {
			return d.Open[i].Line < d.Open[j].Line
		}
		return d.Open[i].Order < d.Open[j].Order
	})
	return d
}

// Message is the notification body: a headline, then one row per line.
func (d Digest) Message() string {
	if len(d.Open) == 0 {
		if d.Scheduled == 0 {
			return "Nothing scheduled today."
		}
		return fmt.Sprintf("All %d tasks done today.", d.Scheduled)
	}

	noun := "tasks"
	if len(d.Open) == 1 {
		noun = "task"
	}
	lines := []string{fmt.Sprintf("%d open %s today (%d/%d done)", len(d.Open), noun, d.Done, d.Scheduled)}

	byLine := map[model.Line][]string{}
	for _, it := range d.Open {
		byLine[it.Line] = append(byLine[it.Line], it.Title)
	}
	for _, l := range model.Lines {
		if titles := byLine[l]; len(titles) > 0 {
			lines = append(lines, fmt.Sprintf("Line %d: %s", l, strings.Join(titles, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

type BeeepNotifier struct {
	AppName string
}

func (n BeeepNotifier) Notify(title, message string) error {
	if n.AppName != "" {
		beeep.AppName = n.AppName
	}
	return beeep.Notify(title, message, "")
}

// Notify sends d unless nothing is open. It reports whether a
// notification went out.
func Notify(n Notifier, title string, d Digest) (bool, error) {
	if len(d.Open) == 0 {
		return false, nil
	}
	if err := n.Notify(title, d.Message()); err != nil {
		return false, fmt.Errorf("notify: %w", err)
	}
	return true, nil
}
