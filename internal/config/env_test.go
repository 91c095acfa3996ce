package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestEnvFrom_Defaults(t *testing.T) {
	env, err := envFrom(lookup(map[string]string{"JWT_SECRET": "s"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, DriverMySQL, env.StorageDriver)
	assert.Equal(t, 100, env.PageMaxLimit)
	assert.Equal(t, "dev", env.AppEnv)
	assert.Empty(t, env.CORSOrigins)
}

func TestEnvFrom_Overrides(t *testing.T) {
	env, err := envFrom(lookup(map[string]string{
		"JWT_SECRET":           "s",
		"APP_ADDR":             ":9000",
		"STORAGE_DRIVER":       "Memory",
		"PAGE_MAX_LIMIT":       "50",
		"CORS_ALLOWED_ORIGINS": " https://a.example ,, https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", env.AppAddr)
	assert.Equal(t, DriverMemory, env.StorageDriver)
	assert.Equal(t, 50, env.PageMaxLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CORSOrigins)
}

func TestEnvFrom_Rejects(t *testing.T) {
	for name, vars := range map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"JWT_SECRET": "s", "STORAGE_DRIVER": "postgres"},
		"bad limit":      {"JWT_SECRET": "s", "PAGE_MAX_LIMIT": "0"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := envFrom(lookup(vars))
			assert.Error(t, err)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := DBEnv{Host: "db", Port: "3307", User: "app", Password: "pw", Name: "dash"}.MySQLDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "app:pw@tcp(db:3307)/dash?")
	assert.Contains(t, dsn, "parseTime=true")

	dsn, err = DBEnv{DSN: "u:p@tcp(h:1)/x"}.MySQLDSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = DBEnv{DSN: "::not a dsn"}.MySQLDSN()
	assert.Error(t, err)
}
