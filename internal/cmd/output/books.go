package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/favorites"
	"github.com/agentstation/bookmap/pkg/notifications"
)

const maxCell = 48

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func year(y int) string {
	if y <= 0 {
		return "-"
	}
	return strconv.Itoa(y)
}

// BooksToData converts books to a table. The subject and publisher columns
// are wide-only.
func BooksToData(list []books.Book) Data {
	d := Data{
		Headers:         []string{"Key", "Title", "Authors", "Year", "Publisher", "Subjects"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
		WideColumns:     []int{4, 5},
	}
	for _, b := range list {
		publisher := ""
		if len(b.Publishers) > 0 {
			publisher = b.Publishers[0]
		}
		subjects := b.Subjects
		if len(subjects) > 3 {
			subjects = subjects[:3]
		}
		d.Rows = append(d.Rows, []string{
			b.ID(),
			truncate(b.Title, maxCell),
			truncate(b.Authors(), maxCell/2),
			year(b.FirstPublishYear),
			truncate(publisher, maxCell/2),
			truncate(strings.Join(subjects, ", "), maxCell),
		})
	}
	return d
}

// FavoritesToData converts a favorites set to a table.
func FavoritesToData(set favorites.Set) Data {
	d := BooksToData(set.Books)
	d.Headers = append([]string{"#"}, d.Headers...)
	d.ColumnAlignment = append([]Align{AlignRight}, d.ColumnAlignment...)
	for i := range d.WideColumns {
		d.WideColumns[i]++
	}
	for i := range d.Rows {
		d.Rows[i] = append([]string{strconv.Itoa(i + 1)}, d.Rows[i]...)
	}
	return d
}

// WorkToData converts work details to a property table.
func WorkToData(w *books.Work, coverURL string) Data {
	d := Data{Headers: []string{"Property", "Value"}}
	add := func(k, v string) {
		if v != "" {
			d.Rows = append(d.Rows, []string{k, v})
		}
	}
	add("Key", w.Key)
	add("Title", w.Title)
	add("First Published", w.FirstPublishDate)
	add("Subjects", truncate(strings.Join(w.Subjects, ", "), maxCell*2))
	add("Cover", coverURL)
	add("Description", truncate(w.Description.String(), maxCell*4))
	return d
}

// NotificationsToData converts a notification snapshot to a table.
func NotificationsToData(snap notifications.Snapshot) Data {
	d := Data{
		Headers:     []string{"ID", "", "Type", "Title", "Message", "When"},
		WideColumns: []int{0},
	}
	for _, r := range snap.Records {
		mark := "•"
		if r.Read {
			mark = ""
		}
		d.Rows = append(d.Rows, []string{
			r.ID,
			mark,
			string(r.Type),
			r.Title,
			truncate(r.Message, maxCell),
			r.Time().Local().Format(time.DateTime),
		})
	}
	return d
}

// ChangesToData converts change events to a table.
func ChangesToData(events []books.ChangeEvent) Data {
	d := Data{
		Headers:     []string{"ID", "Kind", "When", "Author", "Comment", "Keys"},
		WideColumns: []int{5},
	}
	for _, e := range events {
		d.Rows = append(d.Rows, []string{
			e.ID,
			string(e.Kind),
			e.Timestamp.Local().Format(time.DateTime),
			e.AuthorRef,
			truncate(e.Comment, maxCell),
			fmt.Sprint(len(e.AffectedKeys)),
		})
	}
	return d
}
