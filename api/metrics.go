package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "studyplan-api/api"
	requestSpanName    = "planner.api.request"
	requestEventName   = "planner.api.request"
	requestEventDomain = "planner"
)

// requestMetrics collects per-request phase timings and emits them as a
// structured observability event plus an OpenTelemetry span on Log.
type requestMetrics struct {
	logger *log.Logger
	span   trace.Span
	start  time.Time

	route      string
	authMs     float64
	loadMs     float64
	computeMs  float64
	encodeMs   float64
	errorStage string
}

func newRequestMetrics(ctx context.Context, logger *log.Logger, route string) (*requestMetrics, context.Context) {
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	spanCtx, span := tracer.Start(ctx, requestSpanName,
		trace.WithAttributes(attribute.String("http.route", route)))
	return &requestMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
		route:  route,
	}, spanCtx
}

func (m *requestMetrics) ObserveAuth(d time.Duration)    { m.authMs = durationToMillis(d) }
func (m *requestMetrics) ObserveLoad(d time.Duration)    { m.loadMs = durationToMillis(d) }
func (m *requestMetrics) ObserveCompute(d time.Duration) { m.computeMs = durationToMillis(d) }
func (m *requestMetrics) ObserveEncode(d time.Duration)  { m.encodeMs = durationToMillis(d) }

func (m *requestMetrics) SetErrorStage(stage string) { m.errorStage = stage }

// Log emits the observability event for the finished request and ends the span.
func (m *requestMetrics) Log(status int, err error) {
	totalMs := durationToMillis(time.Since(m.start))
	severityText, severityNumber := severityForStatus(status, err)

	attrs := map[string]any{
		"http.route":         m.route,
		"http.status_code":   status,
		"planner.auth_ms":    m.authMs,
		"planner.load_ms":    m.loadMs,
		"planner.compute_ms": m.computeMs,
		"planner.encode_ms":  m.encodeMs,
		"planner.total_ms":   totalMs,
	}
	if m.errorStage != "" {
		attrs["planner.error_stage"] = m.errorStage
	}
	if err != nil {
		attrs["error.message"] = err.Error()
	}

	if m.span != nil {
		m.span.SetAttributes(attribute.Int("http.status_code", status))
		eventAttrs := append(attributesToKeyValues(attrs),
			attribute.String("event.name", requestEventName),
			attribute.String("event.domain", requestEventDomain),
			attribute.String("severity_text", severityText),
			attribute.Int("severity_number", severityNumber),
		)
		m.span.AddEvent("observability.event", trace.WithAttributes(eventAttrs...))
		if err != nil {
			m.span.RecordError(err)
			m.span.SetStatus(codes.Error, err.Error())
		} else if status >= http.StatusInternalServerError {
			m.span.SetStatus(codes.Error, http.StatusText(status))
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	fields := log.Fields{
		"event.name":      requestEventName,
		"event.domain":    requestEventDomain,
		"severity_text":   severityText,
		"severity_number": severityNumber,
		"attributes":      attrs,
	}
	if m.span != nil {
		sc := m.span.SpanContext()
		if sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		if sc.HasSpanID() {
			fields["span_id"] = sc.SpanID().String()
		}
	}
	m.logger.WithFields(fields).Info("observability.event")
}

func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func attributesToKeyValues(attrs map[string]any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			out = append(out, attribute.String(k, val))
		case bool:
			out = append(out, attribute.Bool(k, val))
		case int:
			out = append(out, attribute.Int(k, val))
		case float64:
			out = append(out, attribute.Float64(k, val))
		}
	}
	return out
}
