package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"med-adherence/internal/router"
)

func TestHTTP_EndToEnd_MedicationLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "user-1"
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	// 1) Registrar un medicamento 2x/día activo desde ayer
	medID := createMedication(t, ts.URL, userID, map[string]any{
		"name":              "Ibuprofeno",
		"dose":              "400 mg",
		"frequency_per_day": 2,
		"start_date":        yesterday,
	})

	// 2) La agenda de hoy tiene exactamente 2 ocurrencias, ordenadas
	var today []scheduledDose
	{
		st, body := doReq(t, ts.URL, "GET", "/schedule/today", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 today schedule, got %d body=%s", st, string(body))
		}
		if err := json.Unmarshal(body, &today); err != nil {
			t.Fatalf("today schedule: invalid json: %v", err)
		}
		if len(today) != 2 {
			t.Fatalf("expected 2 doses today, got %d body=%s", len(today), string(body))
		}
		if today[0].DoseNumber != 1 || today[1].DoseNumber != 2 {
			t.Fatalf("expected dose numbers 1,2 got %d,%d", today[0].DoseNumber, today[1].DoseNumber)
		}
		if !today[0].ScheduledTime.Before(today[1].ScheduledTime) {
			t.Fatalf("today schedule not ordered by time")
		}
		for _, d := range today {
			if d.MedicationID != medID {
				t.Fatalf("unexpected medication %s in schedule", d.MedicationID)
			}
		}
	}

	// 3) Registrar la primera toma
	{
		st, body := doReq(t, ts.URL, "POST", "/doses/log", userID, map[string]any{
			"medication_id":  medID,
			"scheduled_time": today[0].ScheduledTime.Format(time.RFC3339),
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 log dose, got %d body=%s", st, string(body))
		}
	}

	// 4) Reintento sobre la misma ocurrencia => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/doses/log", userID, map[string]any{
			"medication_id":  medID,
			"scheduled_time": today[0].ScheduledTime.Format(time.RFC3339),
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate dose, got %d", st)
		}
	}

	// 5) La agenda refleja la toma. El test corre contra el reloj real, así
	// que el status esperado depende de si el registro cayó dentro de la
	// ventana de atribución [-2h, +4h] de la ocurrencia.
	{
		st, body := doReq(t, ts.URL, "GET", "/schedule/today", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 today schedule, got %d", st)
		}
		var doses []scheduledDose
		_ = json.Unmarshal(body, &doses)
		if len(doses) != 2 {
			t.Fatalf("expected 2 doses, body=%s", string(body))
		}

		now := time.Now()
		scheduled := today[0].ScheduledTime
		want := "taken"
		if now.Before(scheduled.Add(-2 * time.Hour)) {
			want = "pending"
		} else if now.After(scheduled.Add(4 * time.Hour)) {
			want = "missed"
		}
		if doses[0].Status != want {
			t.Fatalf("expected first dose %s, body=%s", want, string(body))
		}
	}

	// 6) Listado de tomas
	{
		st, body := doReq(t, ts.URL, "GET", "/doses", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list doses, got %d", st)
		}
		var logs []map[string]any
		_ = json.Unmarshal(body, &logs)
		if len(logs) != 1 {
			t.Fatalf("expected 1 logged dose, got %d", len(logs))
		}
	}

	// 7) Resumen de adherencia del período
	{
		st, body := doReq(t, ts.URL, "GET", "/adherence/summary", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 adherence summary, got %d body=%s", st, string(body))
		}
		var sum struct {
			AdherencePercentage int              `json:"adherence_percentage"`
			MissedMedications   []map[string]any `json:"missed_medications"`
			DayData             []map[string]any `json:"day_data"`
		}
		if err := json.Unmarshal(body, &sum); err != nil {
			t.Fatalf("summary: invalid json: %v", err)
		}
		if sum.AdherencePercentage < 0 || sum.AdherencePercentage > 100 {
			t.Fatalf("percentage out of range: %d", sum.AdherencePercentage)
		}
		if len(sum.DayData) == 0 {
			t.Fatalf("expected non-empty day series")
		}
	}

	// 8) Export CSV con rango amplio alrededor de hoy
	{
		start := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
		end := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
		st, body, headers := doReqRaw(t, ts.URL, "GET", "/reports/logs.csv?start="+start+"&end="+end, userID)
		if st != http.StatusOK {
			t.Fatalf("expected 200 csv export, got %d body=%s", st, string(body))
		}
		if ct := headers.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Fatalf("expected text/csv, got %s", ct)
		}
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected header + 1 row, got %d lines: %s", len(lines), string(body))
		}
		if !strings.HasPrefix(lines[0], "Medication,") {
			t.Fatalf("unexpected csv header: %s", lines[0])
		}
		if !strings.HasPrefix(lines[1], "Ibuprofeno,") {
			t.Fatalf("unexpected csv row: %s", lines[1])
		}
	}

	// 9) Recordatorios a 7 días: los días futuros aportan 2 dosis cada uno
	{
		st, body := doReq(t, ts.URL, "GET", "/schedule/reminders", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 reminders, got %d", st)
		}
		var doses []scheduledDose
		_ = json.Unmarshal(body, &doses)
		// 6 días completos futuros (12 dosis) + 0..2 de hoy según la hora.
		if len(doses) < 12 || len(doses) > 14 {
			t.Fatalf("expected 12-14 reminder doses, got %d", len(doses))
		}
		for _, d := range doses {
			if d.Status == "missed" && !d.IsDue {
				t.Fatalf("reminders must not include elapsed unlogged doses: %+v", d)
			}
		}
	}
}

func TestHTTP_Medications_CRUD(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "user-1"
	otherID := "user-2"
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	medID := createMedication(t, ts.URL, userID, map[string]any{
		"name":              "Paracetamol",
		"dose":              "500 mg",
		"frequency_per_day": 3,
		"start_date":        yesterday,
	})

	// PATCH parcial
	{
		st, body := doReq(t, ts.URL, "PATCH", "/medications/"+medID, userID, map[string]any{
			"dose": "650 mg",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
		}
		var resp struct {
			Dose            string `json:"dose"`
			FrequencyPerDay int    `json:"frequency_per_day"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Dose != "650 mg" || resp.FrequencyPerDay != 3 {
			t.Fatalf("patch result: %s", string(body))
		}
	}

	// Otro usuario no ve el medicamento (404, no 403)
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications/"+medID, otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for other user's medication, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/medications/"+medID, otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 deleting other user's medication, got %d", st)
		}
	}

	// Frecuencia inválida => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/medications", userID, map[string]any{
			"name":              "Malo",
			"dose":              "1",
			"frequency_per_day": 0,
			"start_date":        yesterday,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for frequency 0, got %d", st)
		}
	}

	// DELETE del dueño
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/medications/"+medID, userID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications/"+medID, userID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_Categories_DeleteBlockedWhileInUse(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "user-1"
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	// Crear categoría
	var catID string
	{
		st, body := doReq(t, ts.URL, "POST", "/categories", userID, map[string]any{
			"name": "Crónicos",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create category, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		catID = resp.ID
	}

	medID := createMedication(t, ts.URL, userID, map[string]any{
		"name":              "Enalapril",
		"dose":              "10 mg",
		"frequency_per_day": 1,
		"start_date":        yesterday,
		"category_id":       catID,
	})

	// Categoría en uso => 409
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/categories/"+catID, userID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 deleting category in use, got %d", st)
		}
	}

	// Liberarla borrando el medicamento
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/medications/"+medID, userID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete medication, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/categories/"+catID, userID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete category, got %d", st)
		}
	}
}

func TestHTTP_RequiresAuth(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/medications"},
		{"GET", "/schedule/today"},
		{"GET", "/schedule/reminders"},
		{"GET", "/doses"},
		{"GET", "/adherence/summary"},
		{"GET", "/reports/logs.csv"},
		{"GET", "/categories"},
	}

	for _, p := range paths {
		st, _ := doReq(t, ts.URL, p.method, p.path, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without user, got %d", p.method, p.path, st)
		}
	}

	// Health no requiere auth
	st, _ := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
}

func TestHTTP_LogDose_UnknownOrForeignMedication(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	scheduled := time.Now().Format(time.RFC3339)

	// Medicamento inexistente => 404
	{
		st, body := doReq(t, ts.URL, "POST", "/doses/log", "user-1", map[string]any{
			"medication_id":  "no-such-med",
			"scheduled_time": scheduled,
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 logging against unknown medication, got %d body=%s", st, string(body))
		}
	}

	// Medicamento de otro usuario => 404, no 403
	medID := createMedication(t, ts.URL, "user-2", map[string]any{
		"name":              "Losartán",
		"dose":              "50 mg",
		"frequency_per_day": 1,
		"start_date":        yesterday,
	})
	{
		st, body := doReq(t, ts.URL, "POST", "/doses/log", "user-1", map[string]any{
			"medication_id":  medID,
			"scheduled_time": scheduled,
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 logging against foreign medication, got %d body=%s", st, string(body))
		}
	}

	// El dueño sí puede registrar contra el mismo medicamento
	{
		st, body := doReq(t, ts.URL, "POST", "/doses/log", "user-2", map[string]any{
			"medication_id":  medID,
			"scheduled_time": scheduled,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 logging as owner, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_Reminders_ValidatesDays(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	for _, v := range []string{"0", "32", "abc", "-1"} {
		st, _ := doReq(t, ts.URL, "GET", "/schedule/reminders?days="+v, "user-1", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("days=%s: expected 400, got %d", v, st)
		}
	}
}

// -------------------------
// Helpers
// -------------------------

type scheduledDose struct {
	MedicationID  string    `json:"medication_id"`
	DoseNumber    int       `json:"dose_number"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
	IsToday       bool      `json:"is_today"`
	IsTomorrow    bool      `json:"is_tomorrow"`
	IsUpcoming    bool      `json:"is_upcoming"`
	IsDue         bool      `json:"is_due"`
}

func createMedication(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()
	st, b, _ := doReqWithBody(t, baseURL, method, path, debugUserID, body)
	return st, b
}

func doReqRaw(t *testing.T, baseURL, method, path, debugUserID string) (int, []byte, http.Header) {
	t.Helper()
	return doReqWithBody(t, baseURL, method, path, debugUserID, nil)
}

func doReqWithBody(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte, http.Header) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody, res.Header
}
