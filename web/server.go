package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	memetokens "github.com/krazyTry/meme-tokens-go/gen/meme_tokens"
	"github.com/krazyTry/meme-tokens-go/helpers"
	"github.com/krazyTry/meme-tokens-go/metrics"
	"github.com/krazyTry/meme-tokens-go/view"
	"github.com/krazyTry/meme-tokens-go/wallet"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const DefaultSubmitTimeout = 90 * time.Second

// Server is the browser front end: one create form, one search form and the wallet button.
type Server struct {
	facade view.Facade
	wallet *wallet.Context
	create *view.CreateForm
	search *view.SearchForm

	network   string
	programID solana.PublicKey
	explorer  view.Explorer
	timeout   time.Duration
	decimals  uint8
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithExplorer(e view.Explorer) Option {
	return func(s *Server) {
		s.explorer = e
		s.network = e.Cluster
	}
}

func WithProgramID(programID solana.PublicKey) Option {
	return func(s *Server) {
		if !programID.IsZero() {
			s.programID = programID
		}
	}
}

// WithDefaultDecimals preselects decimals in the create form.
func WithDefaultDecimals(decimals uint8) Option {
	return func(s *Server) {
		s.decimals = decimals
	}
}

// WithSubmitTimeout bounds how long a create request waits for confirmation.
func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewServer(facade view.Facade, w *wallet.Context, opts ...Option) *Server {
	s := &Server{
		facade:    facade,
		wallet:    w,
		explorer:  view.DefaultExplorer(),
		network:   view.DefaultExplorer().Cluster,
		programID: memetokens.ProgramID,
		timeout:   DefaultSubmitTimeout,
		decimals:  helpers.DefaultDecimals,
		logger:    zap.NewNop(),
	}
	for _, fn := range opts {
		fn(s)
	}
	formOpts := []view.Option{
		view.WithExplorer(s.explorer),
		view.WithLogger(s.logger),
		view.WithDefaultDecimals(s.decimals),
	}
	s.create = view.NewCreateForm(facade, w, formOpts...)
	s.search = view.NewSearchForm(facade, formOpts...)
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/create", s.handleCreate)
	r.Post("/search", s.handleSearch)
	r.Post("/wallet/connect", s.handleConnect)
	r.Post("/wallet/disconnect", s.handleDisconnect)
	r.Get("/api/tokens/{name}", s.handleTokenAPI)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type walletView struct {
	Connected bool
	Address   string
	Short     string
}

type page struct {
	Network     string
	Wallet      walletView
	WalletError string
	Decimals    []uint8
	Create      view.CreateState
	Search      view.SearchState
}

func (s *Server) page() page {
	p := page{
		Network:  s.network,
		Decimals: helpers.SupportedDecimals,
		Create:   s.create.State(),
		Search:   s.search.State(),
	}
	if address, ok := s.wallet.Address(); ok {
		p.Wallet = walletView{
			Connected: true,
			Address:   address.String(),
			Short:     helpers.TruncateAddress(address.String(), 4),
		}
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, code int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := pageTemplate.Execute(w, p); err != nil {
		s.requestLog(r).Error("render page", zap.Error(err))
	}
}
