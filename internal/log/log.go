package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"salesledger/internal/domain"
)

var std = newLogger(os.Stdout)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "action",
		},
	})
	return l
}

// L returns the process logger for code that has no request in hand.
func L() *logrus.Logger { return std }

func SetOutput(w io.Writer) { std.SetOutput(w) }

func Writer() io.Writer { return std.Out }

func entry(c *fiber.Ctx, kind string, fields map[string]any) *logrus.Entry {
	e := std.WithField("kind", kind)
	if len(fields) > 0 {
		e = e.WithField("fields", fields)
	}
	if c == nil {
		return e
	}
	e = e.WithFields(logrus.Fields{
		"ip":     c.IP(),
		"method": c.Method(),
		"path":   c.Path(),
		"status": c.Response().StatusCode(),
	})
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		e = e.WithField("req_id", rid)
	}
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		e = e.WithField("user_id", u.ID)
	}
	return e
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, "info", fields).Info(action)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, "audit", fields).Info(action)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, "security", fields).Warn(action)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry(c, "error", fields)
	if err != nil {
		e = e.WithField("err", err.Error())
	}
	e.Error(action)
}
