package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/krazyTry/meme-tokens-go/helpers"
	"github.com/krazyTry/meme-tokens-go/logging"
	"github.com/krazyTry/meme-tokens-go/memetoken"
	"github.com/krazyTry/meme-tokens-go/view"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.page())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	decimals, err := view.ParseDecimals(r.PostFormValue("decimals"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := view.CreateInput{
		Name:     r.PostFormValue("name"),
		Supply:   r.PostFormValue("supply"),
		Decimals: decimals,
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	_, err = s.create.Submit(ctx, input)
	s.render(w, r, statusFor(err), s.page())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err := s.search.Submit(r.Context(), r.PostFormValue("name"))
	s.render(w, r, statusFor(err), s.page())
}

func statusFor(err error) int {
	if errors.Is(err, view.ErrBusy) {
		return http.StatusConflict
	}
	return http.StatusOK
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := s.wallet.Connect(r.Context()); err != nil {
		s.requestLog(r).Warn("wallet connect failed", zap.Error(err))
		p := s.page()
		p.WalletError = err.Error()
		s.render(w, r, http.StatusOK, p)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.wallet.Disconnect()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type tokenResponse struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Mint          string `json:"mint"`
	Authority     string `json:"authority"`
	MintAuthority string `json:"mintAuthority"`
	Supply        uint64 `json:"supply"`
	UISupply      string `json:"uiSupply"`
	Decimals      uint8  `json:"decimals"`
	IsInitialized bool   `json:"isInitialized"`
	Bump          uint8  `json:"bump"`
	ExplorerURL   string `json:"explorerUrl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTokenAPI(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: helpers.ErrNameRequired.Error()})
		return
	}
	address, _, err := memetoken.DeriveTokenMetadataAddress(name, s.programID)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: helpers.ErrNameTooLong.Error()})
		return
	}

	meta, err := s.facade.GetTokenMetadata(r.Context(), name)
	switch {
	case err != nil:
		s.requestLog(r).Warn("fetch token metadata failed", zap.String("name", name), zap.Error(err))
		s.writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: view.MsgFetchFailed})
	case meta == nil:
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: view.MsgNotFound})
	default:
		s.writeJSON(w, r, http.StatusOK, tokenResponse{
			Name:          meta.MemeName,
			Address:       address.String(),
			Mint:          meta.Mint.String(),
			Authority:     meta.Authority.String(),
			MintAuthority: meta.MintAuthority.String(),
			Supply:        meta.Supply,
			UISupply:      helpers.FormatTokenAmount(meta.Supply, meta.Decimals),
			Decimals:      meta.Decimals,
			IsInitialized: meta.IsInitialized,
			Bump:          meta.Bump,
			ExplorerURL:   s.explorer.Address(meta.Mint.String()),
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.requestLog(r).Error("encode response", zap.Error(err))
	}
}

func (s *Server) requestLog(r *http.Request) *zap.Logger {
	return logging.GetLoggerFromContext(r.Context())
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.logger.With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if s.metrics != nil {
			s.metrics.HTTPInFlight.Inc()
			defer s.metrics.HTTPInFlight.Dec()
		}

		next.ServeHTTP(ww, r.WithContext(logging.Inject(r.Context(), log)))

		took := time.Since(start)
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		if s.metrics != nil {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			s.metrics.ObserveHTTP(r.Method, route, code, took)
		}
		log.Debug("request served", zap.Int("status", code), zap.Duration("took", took))
	})
}
