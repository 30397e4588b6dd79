package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newDryRunDB 返回只生成 SQL 不连接数据库的 gorm 实例，并记录最后一条查询语句。
func newDryRunDB(t *testing.T) (*gorm.DB, *capturedQuery) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/ai_portal?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	captured := &capturedQuery{}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		captured.sql = tx.Statement.SQL.String()
		captured.vars = tx.Statement.Vars
	}))
	return db, captured
}

type capturedQuery struct {
	sql  string
	vars []interface{}
}

func TestPrefixQueriesAreCaseSensitive(t *testing.T) {
	db, captured := newDryRunDB(t)

	cases := []struct {
		name   string
		run    func() error
		clause string
	}{
		{
			name: "tools",
			run: func() error {
				_, err := NewToolRepository(db).NamesWithPrefix("Ch", 5)
				return err
			},
			clause: "name LIKE BINARY ?",
		},
		{
			name: "files",
			run: func() error {
				_, err := NewFileRepository(db).NamesWithPrefix(1, "Ch", 5)
				return err
			},
			clause: "original_name LIKE BINARY ?",
		},
		{
			name: "chats",
			run: func() error {
				_, err := NewChatRepository(db).TitlesWithPrefix(1, "Ch", 5)
				return err
			},
			clause: "title LIKE BINARY ?",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.run())
			assert.Contains(t, captured.sql, tc.clause)
			assert.Contains(t, captured.vars, "Ch%")
		})
	}
}

func TestPrefixPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `50\%\_off%`, prefixPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
