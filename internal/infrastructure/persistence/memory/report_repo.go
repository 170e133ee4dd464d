package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/bookstock/internal/domain/report"
)

type reportRepository struct {
	s *Store
}

// NewReportRepository 创建内存报表仓储
func NewReportRepository(s *Store) report.Repository {
	return &reportRepository{s: s}
}

// TopAuthors 按图书数量降序,数量相同按作者名升序
func (r *reportRepository) TopAuthors(ctx context.Context, limit int) ([]report.AuthorCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	counts := make(map[string]int64)
	for _, b := range r.s.books {
		counts[b.Author]++
	}
	r.s.mu.RUnlock()

	out := make([]report.AuthorCount, 0, len(counts))
	for author, n := range counts {
		out = append(out, report.AuthorCount{Author: author, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Author < out[j].Author
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reportRepository) TotalStock(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, b := range r.s.books {
		total += int64(b.Stock)
	}
	return total, nil
}

// BestSellers 先聚合取前limit名,再关联图书;图书已删除的行被丢弃
func (r *reportRepository) BestSellers(ctx context.Context, limit int) ([]report.BestSeller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sold := make(map[string]int64)
	for _, t := range r.s.transactions {
		sold[t.BookID] += int64(t.Amount)
	}

	type group struct {
		bookID string
		total  int64
	}
	groups := make([]group, 0, len(sold))
	for id, n := range sold {
		groups = append(groups, group{bookID: id, total: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].total != groups[j].total {
			return groups[i].total > groups[j].total
		}
		return groups[i].bookID < groups[j].bookID
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}

	out := make([]report.BestSeller, 0, len(groups))
	for _, g := range groups {
		b, ok := r.s.books[g.bookID]
		if !ok {
			continue
		}
		out = append(out, report.BestSeller{
			BookID:      b.ID,
			TotalSold:   g.total,
			Title:       b.Title,
			Author:      b.Author,
			Description: b.Description,
			Price:       b.Price,
			Stock:       b.Stock,
		})
	}
	return out, nil
}
