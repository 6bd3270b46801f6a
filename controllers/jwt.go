package controllers

import (
	"encoding/json"
	"errors"
	"mediease/utils"
	"net/http"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(payload map[string]interface{}) (string, error)
}

// TokenController hands out access tokens after client-side sign-in.
type TokenController struct {
	Tokens TokenIssuer
}

func NewTokenController(tokens TokenIssuer) *TokenController {
	return &TokenController{Tokens: tokens}
}

// IssueToken signs the posted JSON object. It must contain an email.
func (tc *TokenController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := tc.Tokens.Issue(payload)
	if errors.Is(err, utils.ErrMissingEmail) {
		utils.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}
	if err != nil {
		utils.Error("issue token: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
