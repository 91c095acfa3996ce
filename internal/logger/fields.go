package logger

import (
	"time"

	"go.uber.org/zap"
)

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// Entity names the CRUD entity type (organization, visitor, ...).
func Entity(v string) zap.Field { return zap.String("entity", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

func ID(v int64) zap.Field { return zap.Int64("id", v) }

func UserID(v string) zap.Field { return zap.String("user_id", v) }

func Role(v string) zap.Field { return zap.String("role", v) }

// OrgID logs the caller's organization, or "*" when unrestricted.
func OrgID(v *int64) zap.Field {
	if v == nil {
		return zap.String("org_id", "*")
	}
	return zap.Int64("org_id", *v)
}

func Err(err error) zap.Field { return zap.Error(err) }
