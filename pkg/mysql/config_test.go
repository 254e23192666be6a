package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 3306, User: "ledger", Password: "secret", DBName: "ledger"}
	assert.Equal(t, "ledger:secret@tcp(db:3306)/ledger?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())

	raw := DefaultConfig("u:p@tcp(h:1)/x?parseTime=true")
	assert.Equal(t, "u:p@tcp(h:1)/x?parseTime=true", raw.DSN())
	assert.Equal(t, 10, raw.ConnectAttempts)
}
