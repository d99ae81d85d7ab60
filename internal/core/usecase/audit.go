package usecase

import (
	"context"
	"net/url"
	"time"

	"github.com/rbroggi/accountd/internal/core/extract"
	"github.com/rbroggi/accountd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// RequestContext gathers the per-request metadata the auditor needs to
// assemble one record. The HTTP actor stamps Start at request entry and
// collects the optional payloads from the request scope.
type RequestContext struct {
	// Method is the HTTP method.
	Method string

	// Path is the request path.
	Path string

	// Query is the raw query string. Empty when the request carried none.
	Query string

	// Referer is the raw Referer header value. Empty when absent.
	Referer string

	// Start is the time stamped at request entry.
	Start time.Time

	// UserEmail identifies the authenticated user. Empty when anonymous.
	UserEmail string

	// UserID is the authenticated user id. Empty when anonymous.
	UserID string

	// Message is an optional message-event payload.
	Message string

	// Track is an optional track-event payload.
	Track string

	// Error, ErrorID and ErrorStackTrace describe a request-scoped error,
	// when one was recorded.
	Error           string
	ErrorID         string
	ErrorStackTrace string
}

// AuditorArgs contains the mandatory arguments for the Auditor.
type AuditorArgs struct {
	// Sink is the destination of assembled records.
	Sink ports.AuditSink

	// Domain is the production domain. Referers pointing at it (or at
	// localhost) are reduced to their path.
	Domain string
}

// AuditorOptArgs are the optional arguments for building an Auditor.
type AuditorOptArgs = func(*Auditor)

// WithAuditNowFunc can be used to override the nowFunc. Useful for testing.
func WithAuditNowFunc(nowFunc func() time.Time) AuditorOptArgs {
	return func(a *Auditor) {
		a.nowFunc = nowFunc
	}
}

// NewAuditor creates a new Auditor.
func NewAuditor(args AuditorArgs, optArgs ...AuditorOptArgs) *Auditor {
	auditor := &Auditor{
		sink:    args.Sink,
		domain:  args.Domain,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(auditor)
	}
	return auditor
}

// Auditor assembles one structured record per completed request and hands it
// to the sink. It is strictly best-effort telemetry: no failure in here may
// ever reach the request path.
type Auditor struct {
	sink    ports.AuditSink
	domain  string
	nowFunc func() time.Time
}

// Log builds the record for a completed request and writes it to the sink.
// It never panics and never returns an error: assembly and sink failures are
// logged and absorbed.
func (a *Auditor) Log(ctx context.Context, status int, rc RequestContext) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("panic during audit record assembly")
		}
	}()

	record := a.buildRecord(status, rc)
	if err := a.sink.Write(ctx, record); err != nil {
		log.WithError(err).Warn("error writing audit record to sink")
	}
}

// Flush drains the sink. Safe to call any number of times.
func (a *Auditor) Flush(ctx context.Context) error {
	return a.sink.Flush(ctx)
}

// buildRecord merges the extractor outputs and the base fields into one flat
// record. Extractors are folded first, in a fixed order; base fields are
// written last and always win on key collision.
func (a *Auditor) buildRecord(status int, rc RequestContext) map[string]any {
	record := map[string]any{}

	a.mergeExtracted(record, "url-params", rc.Query, extract.URLParams)
	a.mergeExtracted(record, "message", rc.Message, extract.Message)
	a.mergeExtracted(record, "track", rc.Track, extract.Track)

	level := "info"
	if status >= 400 {
		level = "error"
	}

	record["level"] = level
	record["method"] = rc.Method
	record["path"] = rc.Path
	record["status"] = status
	record["timeInMs"] = a.elapsedMs(rc.Start)
	record["user"] = nullable(rc.UserEmail)
	record["userId"] = nullable(rc.UserID)
	record["referer"] = a.normalizeReferer(rc.Referer)
	record["error"] = nullable(rc.Error)
	record["errorId"] = nullable(rc.ErrorID)
	record["errorStackTrace"] = nullable(rc.ErrorStackTrace)

	return record
}

// mergeExtracted runs one extractor when its payload is present and folds
// its fields into the record. A failing extractor contributes nothing and is
// only logged: it must not suppress the other extractors or the record.
func (a *Auditor) mergeExtracted(record map[string]any, name, payload string, extractor func(string) (map[string]any, error)) {
	if payload == "" {
		return
	}
	fields, err := extractor(payload)
	if err != nil {
		log.WithError(err).WithField("extractor", name).Warn("audit extractor failed")
		return
	}
	for key, value := range fields {
		record[key] = value
	}
}

func (a *Auditor) elapsedMs(start time.Time) int64 {
	if start.IsZero() {
		return 0
	}
	elapsed := a.nowFunc().Sub(start).Milliseconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// normalizeReferer keeps external referers verbatim but reduces same-site
// ones (localhost or the production domain) to their path, so that scheme,
// host and query of internal navigations never leak into the record. A
// malformed referer is kept as the raw string.
func (a *Auditor) normalizeReferer(referer string) any {
	if referer == "" {
		return nil
	}
	refererURL, err := url.Parse(referer)
	if err != nil || refererURL.Hostname() == "" {
		return referer
	}
	if hostname := refererURL.Hostname(); hostname == "localhost" || hostname == a.domain {
		return refererURL.Path
	}
	return referer
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
