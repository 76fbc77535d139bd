package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/ports"
)

// BillRepository persists bills into the bills table.
type BillRepository struct {
	db *gorm.DB
}

var (
	_ ports.BillRepository = (*BillRepository)(nil)
	_ ports.BillCatalog    = (*BillRepository)(nil)
)

// NewBillRepository wires a gorm handle.
func NewBillRepository(db *gorm.DB) *BillRepository {
	return &BillRepository{db: db}
}

// FindByKey looks a bill up by its (congress, type, number) triple.
func (r *BillRepository) FindByKey(ctx context.Context, key domain.BillKey) (domain.Bill, bool, error) {
	var m billModel
	err := r.db.WithContext(ctx).
		Where("congress = ? AND bill_type = ? AND bill_number = ?", key.Congress, key.Type, key.Number).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Bill{}, false, nil
	}
	if err != nil {
		return domain.Bill{}, false, fmt.Errorf("find bill %s: %w", key, err)
	}
	return m.toDomain(), true, nil
}

// Insert stores a new bill. A concurrent insert of the same key yields domain.ErrDuplicateBill.
func (r *BillRepository) Insert(ctx context.Context, bill domain.Bill) (domain.Bill, error) {
	m := billFromDomain(bill)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Bill{}, fmt.Errorf("insert bill %s: %w", bill.Key, domain.ErrDuplicateBill)
		}
		return domain.Bill{}, fmt.Errorf("insert bill %s: %w", bill.Key, err)
	}
	return m.toDomain(), nil
}

// UpdateContent overwrites the upstream-owned fields of the bill with the
// same key. The summary is only written when none is stored yet and vote
// counters are never touched.
func (r *BillRepository) UpdateContent(ctx context.Context, bill domain.Bill) error {
	updates := map[string]any{
		"title":              bill.Title,
		"latest_action":      datatypes.NewJSONType(bill.LatestAction),
		"latest_action_date": bill.LatestActionDate.UTC(),
		"update_date":        bill.UpdateDate.UTC(),
		"text_preview":       bill.TextPreview,
		"ai_summary":         gorm.Expr("CASE WHEN ai_summary IS NULL OR ai_summary = '' THEN ? ELSE ai_summary END", bill.AISummary),
		"updated_at":         time.Now().UTC(),
	}

	res := r.db.WithContext(ctx).Model(&billModel{}).
		Where("congress = ? AND bill_type = ? AND bill_number = ?", bill.Key.Congress, bill.Key.Type, bill.Key.Number).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update bill %s: %w", bill.Key, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update bill %s: %w", bill.Key, domain.ErrBillNotFound)
	}
	return nil
}

// Get loads a bill by id.
func (r *BillRepository) Get(ctx context.Context, id int64) (domain.Bill, error) {
	var m billModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	if err != nil {
		return domain.Bill{}, fmt.Errorf("get bill %d: %w", id, err)
	}
	return m.toDomain(), nil
}

// List returns one page of bills, optionally filtered by chamber.
func (r *BillRepository) List(ctx context.Context, q domain.ListQuery) (domain.BillList, error) {
	q = q.Normalize()

	var filter sq.Sqlizer = sq.Expr("1 = 1")
	if q.Chamber != "" {
		filter = sq.Eq{"LOWER(origin_chamber)": strings.ToLower(q.Chamber)}
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").From("bills").Where(filter).ToSql()
	if err != nil {
		return domain.BillList{}, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return domain.BillList{}, fmt.Errorf("count bills: %w", err)
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	listQuery := sq.Select("*").From("bills").Where(filter).
		OrderBy(fmt.Sprintf("%s %s", q.Sort, dir), fmt.Sprintf("id %s", dir)).
		Limit(uint64(q.PerPage)).
		Offset(uint64((q.Page - 1) * q.PerPage))

	bills, err := r.query(ctx, listQuery)
	if err != nil {
		return domain.BillList{}, fmt.Errorf("list bills: %w", err)
	}

	pages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	return domain.BillList{Bills: bills, Total: total, Page: q.Page, PerPage: q.PerPage, TotalPages: pages}, nil
}

// Trending returns the most upvoted bills.
func (r *BillRepository) Trending(ctx context.Context, limit int) ([]domain.Bill, error) {
	bills, err := r.query(ctx, sq.Select("*").From("bills").
		OrderBy("upvote_count DESC", "id DESC").
		Limit(uint64(clampLimit(limit, 10))))
	if err != nil {
		return nil, fmt.Errorf("trending bills: %w", err)
	}
	return bills, nil
}

// Search matches the keyword case-insensitively against title, summary and preview.
func (r *BillRepository) Search(ctx context.Context, keyword string, limit int) ([]domain.Bill, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return []domain.Bill{}, nil
	}

	pattern := "%" + escapeLike(keyword) + "%"
	bills, err := r.query(ctx, sq.Select("*").From("bills").
		Where(sq.Or{
			sq.Expr("LOWER(title) LIKE ? ESCAPE '\\'", pattern),
			sq.Expr("LOWER(ai_summary) LIKE ? ESCAPE '\\'", pattern),
			sq.Expr("LOWER(text_preview) LIKE ? ESCAPE '\\'", pattern),
		}).
		OrderBy("update_date DESC", "id DESC").
		Limit(uint64(clampLimit(limit, 20))))
	if err != nil {
		return nil, fmt.Errorf("search bills: %w", err)
	}
	return bills, nil
}

// Recent returns the most recently inserted bills.
func (r *BillRepository) Recent(ctx context.Context, limit int) ([]domain.Bill, error) {
	bills, err := r.query(ctx, sq.Select("*").From("bills").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(clampLimit(limit, 5))))
	if err != nil {
		return nil, fmt.Errorf("recent bills: %w", err)
	}
	return bills, nil
}

// Count returns the number of stored bills.
func (r *BillRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&billModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return total, nil
}

func (r *BillRepository) query(ctx context.Context, b sq.SelectBuilder) ([]domain.Bill, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []billModel
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	bills := make([]domain.Bill, 0, len(rows))
	for _, m := range rows {
		bills = append(bills, m.toDomain())
	}
	return bills, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 100 {
		return 100
	}
	return limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
