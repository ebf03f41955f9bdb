package db

import (
	"context"
	"fmt"
	"strings"

	"public_donation_inventory/models"

	"gorm.io/gorm"
)

// Gateway 唯一直接接触 SQL 文本的地方。表名/列名只能来自 models.Registry
type Gateway struct{ DB *gorm.DB }

func NewGateway(db *gorm.DB) *Gateway { return &Gateway{DB: db} }

type Row []any

// ResultSet 查询结果：列名 + 按顺序的行
type ResultSet struct {
	Columns []string
	Rows    []Row
}

func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

func (rs *ResultSet) Index(col string) int {
	for i, c := range rs.Columns {
		if strings.EqualFold(c, col) {
			return i
		}
	}
	return -1
}

// Value 取第 i 行某列，列不存在返回 nil
func (rs *ResultSet) Value(i int, col string) any {
	j := rs.Index(col)
	if j < 0 || i < 0 || i >= len(rs.Rows) {
		return nil
	}
	return rs.Rows[i][j]
}

// Strings 供表格展示，NULL 显示为空串
func (rs *ResultSet) Strings() [][]string {
	out := make([][]string, 0, rs.Len())
	for _, r := range rs.Rows {
		line := make([]string, len(r))
		for i, v := range r {
			if v != nil {
				line[i] = fmt.Sprint(v)
			}
		}
		out = append(out, line)
	}
	return out
}

func (g *Gateway) dialect() string { return g.DB.Dialector.Name() }

func (g *Gateway) idColumn() string {
	if g.dialect() == DriverPostgres {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// CreateTable 幂等；自动加 id 主键，没有 user_name 时补上
func (g *Gateway) CreateTable(ctx context.Context, table string, fields []string) error {
	if !models.ValidIdent(table) {
		return fmt.Errorf("create table: invalid table name %q", table)
	}
	cols := []string{g.idColumn()}
	hasUser := false
	for _, f := range fields {
		if f == "id" {
			continue
		}
		if !models.ValidIdent(f) {
			return fmt.Errorf("create table %s: invalid column %q", table, f)
		}
		if f == "user_name" {
			hasUser = true
		}
		cols = append(cols, quote(f)+" TEXT")
	}
	if !hasUser {
		cols = append(cols, "user_name TEXT")
	}
	q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(table), strings.Join(cols, ", "))
	if err := g.DB.WithContext(ctx).Exec(q).Error; err != nil {
		return &PersistenceError{Op: "create table " + table, Err: err}
	}
	return nil
}

// Execute 执行写语句，立即提交；返回受影响行数
func (g *Gateway) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	res := g.DB.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, &PersistenceError{Op: "execute", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// InsertReturningID 用于 INSERT ... RETURNING id
func (g *Gateway) InsertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := g.DB.WithContext(ctx).Raw(query, args...).Scan(&id).Error; err != nil {
		return 0, &PersistenceError{Op: "insert", Err: err}
	}
	return id, nil
}

// FetchAll 读查询；失败同样返回错误，由调用方决定怎么处理
func (g *Gateway) FetchAll(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	rows, err := g.DB.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, &PersistenceError{Op: "fetch", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &PersistenceError{Op: "fetch", Err: err}
	}
	rs := &ResultSet{Columns: cols, Rows: []Row{}}
	for rows.Next() {
		vals := make(Row, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &PersistenceError{Op: "fetch", Err: err}
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "fetch", Err: err}
	}
	return rs, nil
}
