package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"log/syslog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magicesim/storefront/utils"
	"github.com/sirupsen/logrus"
	logrusSyslog "github.com/sirupsen/logrus/hooks/syslog"
)

// CorrelationKey is the gin context key holding the per-request correlation id.
const CorrelationKey = "correlation_id"

type Logger struct {
	*logrus.Logger
}

func NewLogger(c *utils.Config) *Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if c.Papertrail != "" {
		hook, err := logrusSyslog.NewSyslogHook("udp", c.Papertrail, syslog.LOG_INFO, c.PapertrailAppName)
		if err != nil {
			log.Error("Unable to connect to Papertrail")
		} else {
			log.Hooks.Add(hook)
		}
	}

	return &Logger{
		log,
	}
}

// NewDiscardLogger is used by tests and tools that do not want output.
func NewDiscardLogger() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Logger{log}
}

func (l *Logger) LoggingMiddleWare() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = c.GetRawData()
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}
		if id, ok := c.Get(CorrelationKey); ok {
			fields[CorrelationKey] = id
		}

		// Small JSON bodies only; never log credentials
		if len(requestBody) > 0 && len(requestBody) < 250 {
			var requestJson map[string]interface{}
			if err := json.Unmarshal(requestBody, &requestJson); err != nil {
				l.Debug("error unmarshalling requestBody, request may not be JSON")
			} else {
				for _, k := range []string{"password", "re_password", "new_password", "otp"} {
					if _, ok := requestJson[k]; ok {
						requestJson[k] = "****"
					}
				}
				fields["request"] = requestJson
			}
		}

		l.WithFields(fields).Info("Request-Response")
	}
}
