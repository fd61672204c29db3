package client

import (
	"github.com/sistema-salt/salt-backend/internal/domain"
)

// CategoriesByLocation splits categories into their location sections
func CategoriesByLocation(categories []*domain.Category) map[domain.Location][]*domain.Category {
	out := map[domain.Location][]*domain.Category{
		domain.LocationFinance:       {},
		domain.LocationCommunication: {},
	}
	for _, c := range categories {
		out[c.Location] = append(out[c.Location], c)
	}
	return out
}

// FinancialTotals sums the cached records locally
func FinancialTotals(financials []*domain.Financial) domain.FinancialSummary {
	return domain.Summarize(financials)
}

// FinancialsByType keeps only records of the given type
func FinancialsByType(financials []*domain.Financial, t domain.FinancialType) []*domain.Financial {
	out := make([]*domain.Financial, 0, len(financials))
	for _, f := range financials {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// BoardColumn is one status column of a project's kanban board
type BoardColumn struct {
	Status domain.Status
	Tasks  []*domain.Task
}

// ProjectBoard is a project with its tasks grouped into status columns
type ProjectBoard struct {
	Project *domain.Project
	Columns []BoardColumn
}

// Board groups tasks per project and per status column, keeping project and task order.
// Tasks whose project is not cached are left out.
func Board(projects []*domain.Project, tasks []*domain.Task) []ProjectBoard {
	byProject := make(map[int32]map[domain.Status][]*domain.Task, len(projects))
	for _, p := range projects {
		byProject[p.ID] = make(map[domain.Status][]*domain.Task, len(domain.Statuses))
	}
	for _, t := range tasks {
		if t.ProjectID == nil {
			continue
		}
		columns, ok := byProject[*t.ProjectID]
		if !ok {
			continue
		}
		columns[t.Status] = append(columns[t.Status], t)
	}

	boards := make([]ProjectBoard, 0, len(projects))
	for _, p := range projects {
		board := ProjectBoard{Project: p, Columns: make([]BoardColumn, 0, len(domain.Statuses))}
		for _, status := range domain.Statuses {
			board.Columns = append(board.Columns, BoardColumn{Status: status, Tasks: byProject[p.ID][status]})
		}
		boards = append(boards, board)
	}
	return boards
}

// Progress counts completed tasks
type Progress struct {
	Total     int
	Completed int
}

// Percent returns the completed share rounded down, or 0 with no tasks
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// TaskProgress summarizes how many tasks are done
func TaskProgress(tasks []*domain.Task) Progress {
	progress := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == domain.StatusDone {
			progress.Completed++
		}
	}
	return progress
}

// LowStockProducts lists products whose quantity is below their minimum stock
func LowStockProducts(products []*domain.Product) []*domain.Product {
	out := make([]*domain.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out
}

// CanEdit is a display hint for whether the user may change a record.
// The server enforces the real rule.
func CanEdit(user *domain.User, record domain.Owned) bool {
	if user == nil {
		return false
	}
	return domain.CanModify(user.ID, user.Role, record)
}

// AuthorName resolves an author id against the cached users
func AuthorName(users []*domain.User, authorID *int32) string {
	if authorID == nil {
		return "(removido)"
	}
	for _, u := range users {
		if u.ID == *authorID {
			return u.Name
		}
	}
	return "(desconhecido)"
}
