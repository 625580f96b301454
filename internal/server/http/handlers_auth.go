package http

import (
	"net/http"

	"github.com/dmitrijs2005/bitnet/internal/server/models"
	"github.com/dmitrijs2005/bitnet/internal/server/services"
)

const forgotPasswordMessage = "If your email is registered, you will receive a password reset link."

type authResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.Event("user_registered")
	writeJSON(w, http.StatusCreated, authResponse{Message: "User registered successfully", User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.Event("login")
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", User: user, Token: token})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userIDFromContext(r.Context()), upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Profile updated successfully", "user": user})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	grant, err := s.users.ForgotPassword(r.Context(), in.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := map[string]string{"message": forgotPasswordMessage}
	if grant != nil && s.opts.ExposeResetToken {
		resp["resetToken"] = grant.Token
		resp["resetLink"] = grant.Link
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.users.ResetPassword(r.Context(), in.Token, in.NewPassword); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.Event("password_reset")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}
