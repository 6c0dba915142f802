package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"smartbin-backend/internal/config"
	"smartbin-backend/pkg/utils"
)

const chatPersona = `You are an enthusiastic environmental activist AI assistant focused on waste management, cleanliness, and environmental consciousness.

Your personality:
- Passionate about environmental protection
- Always promote proper waste disposal and recycling
- Encourage cleanliness and hygiene
- Use emojis and positive language
- Give practical, actionable advice
- Be motivational and inspiring

User's message: %s

Respond as an environmental activist would, focusing on waste management, cleanliness, and environmental protection. Keep responses concise but engaging.`

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat proxies the assistant prompt to the Gemini generateContent API so the
// key never reaches the browser.
func Chat(cfg config.Config, log *logrus.Entry) http.HandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
			utils.Error(w, http.StatusBadRequest, "Message is required")
			return
		}

		if cfg.Chat.GeminiAPIKey == "" {
			utils.Error(w, http.StatusBadGateway, "Chat service unavailable")
			return
		}

		payload := map[string]interface{}{
			"contents": []map[string]interface{}{
				{"parts": []map[string]string{
					{"text": fmt.Sprintf(chatPersona, req.Message)},
				}},
			},
		}
		body, err := json.Marshal(payload)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to build chat request")
			return
		}

		url := fmt.Sprintf(
			"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
			cfg.Chat.Model, cfg.Chat.GeminiAPIKey,
		)
		httpReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to build chat request")
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			log.Errorf("chat completion request failed: %v", err)
			utils.Error(w, http.StatusBadGateway, "Chat service unavailable")
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			log.Errorf("chat completion returned status %d", resp.StatusCode)
			utils.Error(w, http.StatusBadGateway, "Chat service unavailable")
			return
		}

		var completion struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
			log.Errorf("decoding chat completion failed: %v", err)
			utils.Error(w, http.StatusBadGateway, "Chat service unavailable")
			return
		}
		if len(completion.Candidates) == 0 || len(completion.Candidates[0].Content.Parts) == 0 {
			utils.Error(w, http.StatusBadGateway, "Chat service returned no reply")
			return
		}

		utils.Success(w, chatResponse{Reply: completion.Candidates[0].Content.Parts[0].Text})
	}
}
