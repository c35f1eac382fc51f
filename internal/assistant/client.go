// Package assistant calls the generative text service that writes the
// natural-language attendance reports. Requests are fire-and-forget from the
// session's point of view: a failure never touches attendance state.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/carrizal-edu/asistencia-api/internal/models"
	"github.com/carrizal-edu/asistencia-api/pkg/config"
)

// RangeRecord is one student's per-date statuses as embedded in the range
// report prompt. Field names are part of the prompt contract.
type RangeRecord struct {
	StudentName string                             `json:"studentName"`
	Attendance  map[string]models.AttendanceStatus `json:"attendance"`
}

// Client talks to a generateContent-style REST endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	dailyModel string
	rangeModel string
	httpClient *http.Client
}

// New constructs a Client from configuration.
func New(cfg config.AssistantConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		dailyModel: cfg.DailyModel,
		rangeModel: cfg.RangeModel,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// DailySummaryMessage asks for a short motivational message summarising one
// day of attendance.
func (c *Client) DailySummaryMessage(ctx context.Context, counts models.StatusCounts) (string, error) {
	prompt := fmt.Sprintf(`Eres un asistente de profesor. Basado en el resumen de asistencia de hoy, escribe un mensaje corto, amigable y motivador para la clase.
Menciona los números de manera positiva. Por ejemplo, celebra a los que vinieron y anima a los ausentes a unirse mañana.
El mensaje debe estar en español.

Resumen de hoy:
- Total de estudiantes: %d
- Presentes: %d
- Ausentes: %d
- Tarde: %d
- Con permiso: %d

Genera solo el mensaje, sin encabezados ni saludos adicionales.`,
		counts.Total, counts.Present, counts.Absent, counts.Late, counts.Permission)

	return c.generate(ctx, c.dailyModel, prompt)
}

// RangeReportTable asks for an HTML table covering the given records and
// dates. Markdown fences the model sometimes wraps the answer in are
// stripped before returning.
func (c *Client) RangeReportTable(ctx context.Context, records []RangeRecord, dates []string) (string, error) {
	recordsJSON, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal range records: %w", err)
	}
	datesJSON, err := json.Marshal(dates)
	if err != nil {
		return "", fmt.Errorf("marshal range dates: %w", err)
	}

	prompt := fmt.Sprintf(`Eres un asistente de profesor encargado de generar un reporte de asistencia en formato de tabla HTML.
NO incluyas nada más que el código HTML de la tabla. Sin markdown, sin explicaciones, solo la tabla.

Datos de Asistencia:
%s

Fechas a incluir en el reporte:
%s

Requerimientos de la Tabla HTML:
1. La cabecera debe contener "Estudiante", todas las fechas del rango, "Presente", "Ausente", "Tarde" y "Permiso".
2. Una fila por cada estudiante en los datos, en el mismo orden.
3. Para cada fecha, la celda debe contener la inicial del estado de asistencia; si no hay registro la celda queda vacía.
4. Las últimas cuatro celdas de cada fila son los totales del estudiante en el rango.
5. La tabla debe ser legible y responsive.`,
		recordsJSON, datesJSON)

	table, err := c.generate(ctx, c.rangeModel, prompt)
	if err != nil {
		return "", err
	}
	table = strings.ReplaceAll(table, "```html", "")
	table = strings.ReplaceAll(table, "```", "")
	return strings.TrimSpace(table), nil
}

func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", model, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%s: http %d: %s", model, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode %s response: %w", model, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%s: empty response", model)
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}
