package sqlbuilder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/golobby/sqlbuilder"
)

func observed(t *testing.T) (sqlbuilder.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return sqlbuilder.NewZapLogger(zap.New(core)), logs
}

func TestNewLogger(t *testing.T) {
	for _, level := range []sqlbuilder.LogLevel{sqlbuilder.LogLevelDev, sqlbuilder.LogLevelProd} {
		l, err := sqlbuilder.NewLogger(level)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
	_, err := sqlbuilder.NewLogger(sqlbuilder.LogLevel(42))
	assert.ErrorContains(t, err, "unknown log level 42")
}

func TestQueryLogging(t *testing.T) {
	logger, logs := observed(t)
	items := openTable(t, sqliteDB(t), "items", func(c *sqlbuilder.Config) { c.Logger = logger })

	items.Select().Perform()
	assert.Zero(t, logs.FilterLevelExact(zapcore.DebugLevel).Len())

	sqlbuilder.SetQueryLogging(true)
	defer sqlbuilder.SetQueryLogging(false)
	assert.True(t, sqlbuilder.QueryLoggingEnabled())

	items.Select("a").Perform()
	debug := logs.FilterLevelExact(zapcore.DebugLevel).All()
	require.Len(t, debug, 1)
	assert.Equal(t, "SELECT a FROM items WHERE True;", debug[0].Message)
}

func TestWarningsAndErrorsAreLogged(t *testing.T) {
	logger, logs := observed(t)
	items := openTable(t, sqliteDB(t), "items", func(c *sqlbuilder.Config) { c.Logger = logger })

	items.Update(map[string]any{"a": 1}).Perform()
	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "every row of items")

	items.PerformSQL("broken")
	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "broken")
	assert.NotContains(t, errs[0].Message, "[ERROR]")
}
