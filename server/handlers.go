package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/lumoshq/lumos/internal/models"
	"github.com/lumoshq/lumos/pkg/dataset"
	"github.com/lumoshq/lumos/pkg/stats"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard is same-origin and unauthenticated
	},
}

// Message is the websocket frame exchanged with the dashboard page.
type Message struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type postOption struct {
	PostID string `json:"post_id"`
	Topic  string `json:"topic"`
	Label  string `json:"label"`
}

type chartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
	Texts  []string  `json:"texts"`
}

type metricsResponse struct {
	Post        models.Post        `json:"post"`
	Stats       models.TypeStats   `json:"stats"`
	Performance models.Performance `json:"performance"`
	// Metrics whose type mean is zero; their performance is reported as 0
	// rather than a division by zero.
	ZeroMeanMetrics []string  `json:"zero_mean_metrics,omitempty"`
	Chart           chartData `json:"chart"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		PostTypes []string
	}{
		PostTypes: dataset.PostTypes(s.posts),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		s.logger.Error("render dashboard", slog.Any("err", err))
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	postType := r.URL.Query().Get("type")

	var options []postOption
	for _, p := range dataset.ByType(s.posts, postType) {
		options = append(options, postOption{
			PostID: p.PostID,
			Topic:  p.Topic,
			Label:  fmt.Sprintf("%s (%s)", p.PostID, p.Topic),
		})
	}

	s.writeJSON(w, http.StatusOK, options)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	postType := r.URL.Query().Get("type")
	postID := r.URL.Query().Get("post")

	resp, err := s.metricsFor(postID, postType)
	if err != nil {
		if errors.Is(err, dataset.ErrPostNotFound) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) metricsFor(postID, postType string) (*metricsResponse, error) {
	typePosts := dataset.ByType(s.posts, postType)
	if len(typePosts) == 0 {
		return nil, fmt.Errorf("no posts of type %q", postType)
	}

	post, err := dataset.Find(typePosts, postID)
	if err != nil {
		return nil, err
	}

	typeStats, err := stats.Aggregate(typePosts)
	if err != nil {
		return nil, err
	}
	perf := stats.PerformanceVsAverage(post, typeStats)

	return &metricsResponse{
		Post:            post,
		Stats:           typeStats,
		Performance:     perf,
		ZeroMeanMetrics: stats.ZeroMeanMetrics(typeStats),
		Chart:           buildChart(perf),
	}, nil
}

func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", slog.Any("err", err))
		return
	}
	defer conn.Close()

	for {
		var req struct {
			PostID   string `json:"post_id"`
			PostType string `json:"post_type"`
		}
		if err := conn.ReadJSON(&req); err != nil {
			break
		}

		metrics, err := s.metricsFor(req.PostID, req.PostType)
		if err != nil {
			s.sendMessage(conn, "error", err.Error())
			continue
		}

		if s.config.Streaming {
			stream, err := s.analyzer.AnalyzeStream(r.Context(), metrics.Post, metrics.Stats, metrics.Performance)
			if err != nil {
				s.sendMessage(conn, "error", fmt.Sprintf("Error: %v", err))
				continue
			}
			for chunk := range stream {
				if strings.HasPrefix(chunk, "Error:") {
					s.sendMessage(conn, "error", chunk)
					break
				}
				s.sendMessage(conn, "stream", chunk)
			}
			s.sendMessage(conn, "done", "")
		} else {
			analysis, err := s.analyzer.Analyze(r.Context(), metrics.Post, metrics.Stats, metrics.Performance)
			if err != nil {
				s.sendMessage(conn, "error", fmt.Sprintf("Error: %v", err))
				continue
			}
			s.sendMessage(conn, "response", analysis)
			s.sendMessage(conn, "done", "")
		}
	}
}

func (s *Server) sendMessage(conn *websocket.Conn, msgType, content string) {
	if err := conn.WriteJSON(Message{Type: msgType, Content: content}); err != nil {
		s.logger.Error("send websocket message", slog.Any("err", err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", slog.Any("err", err))
	}
}

// buildChart turns the performance map into bar chart inputs with the
// dashboard's threshold colors.
func buildChart(perf models.Performance) chartData {
	chart := chartData{
		Labels: make([]string, 0, len(models.MetricNames)),
		Values: make([]float64, 0, len(models.MetricNames)),
		Colors: make([]string, 0, len(models.MetricNames)),
		Texts:  make([]string, 0, len(models.MetricNames)),
	}
	for _, name := range models.MetricNames {
		v := perf[name]
		chart.Labels = append(chart.Labels, displayName(name))
		chart.Values = append(chart.Values, v)
		chart.Colors = append(chart.Colors, barColor(v))
		chart.Texts = append(chart.Texts, fmt.Sprintf("%+.1f%%", v))
	}
	return chart
}

func barColor(v float64) string {
	switch {
	case v < -20:
		return "#e74c3c"
	case v < 0:
		return "#f39c12"
	case v > 20:
		return "#2ecc71"
	default:
		return "#27ae60"
	}
}

func displayName(metric string) string {
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
