package pnphttp

import (
	stdlog "log"
	"net"
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/netkea/pnpcommon/logging"
)

// NewServerLogger adapts a go-kit Logger onto a golang Logger in a way that
// is appropriate for http.Server.ErrorLog.
func NewServerLogger(logger log.Logger) *stdlog.Logger {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return stdlog.New(
		log.NewStdlibAdapter(logger),
		"", // having a prefix gives the adapter trouble
		stdlog.LstdFlags|stdlog.LUTC,
	)
}

// ServerOptions describes the options for constructing and starting the
// HTTP server that fronts the PnP endpoints.
type ServerOptions struct {
	// Logger is the go-kit Logger to use for server startup and error
	// logging.  If not supplied, logging.DefaultLogger() is used instead.
	Logger log.Logger `json:"-"`

	// Address is the bind address of the server.
	Address string `json:"address,omitempty"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `json:"readTimeout,omitempty"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.  Timeouts around dispatch are enforced here, never inside
	// the protocol core.
	WriteTimeout time.Duration `json:"writeTimeout,omitempty"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	IdleTimeout time.Duration `json:"idleTimeout,omitempty"`

	// Listener is the optional net.Listener to use.  If not supplied, the
	// http.Server default listener is used.
	Listener net.Listener `json:"-"`

	// CertificateFile is the HTTPS certificate file.  If both this field
	// and KeyFile are set, an HTTPS starter function is created.
	CertificateFile string `json:"certificateFile,omitempty"`

	// KeyFile is the HTTPS key file.
	KeyFile string `json:"keyFile,omitempty"`
}

// NewServer creates an http.Server from a supplied set of options.  The
// handler is supplied separately, typically a NewRouter result.
func NewServer(o ServerOptions, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         o.Address,
		Handler:      handler,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
		IdleTimeout:  o.IdleTimeout,
		ErrorLog:     NewServerLogger(o.Logger),
	}
}

// NewStarter returns a starter closure for the given HTTP server.  The
// returned closure invokes the correct method on the server based on the
// options, e.g. the TLS variants when a certificate and key are configured.
func NewStarter(o ServerOptions, s *http.Server) func() error {
	logger := o.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	logger = log.With(logger, "address", o.Address)

	var starter func() error
	switch {
	case len(o.CertificateFile) > 0 && len(o.KeyFile) > 0 && o.Listener != nil:
		starter = func() error {
			return s.ServeTLS(o.Listener, o.CertificateFile, o.KeyFile)
		}

	case len(o.CertificateFile) > 0 && len(o.KeyFile) > 0:
		starter = func() error {
			return s.ListenAndServeTLS(o.CertificateFile, o.KeyFile)
		}

	case o.Listener != nil:
		starter = func() error {
			return s.Serve(o.Listener)
		}

	default:
		starter = s.ListenAndServe
	}

	return func() error {
		logger.Log(level.Key(), level.InfoValue(), logging.MessageKey(), "starting server")
		err := starter()
		if err == http.ErrServerClosed {
			logger.Log(level.Key(), level.InfoValue(), logging.MessageKey(), "server closed")
		} else {
			logger.Log(level.Key(), level.ErrorValue(), logging.MessageKey(), "server exited", logging.ErrorKey(), err)
		}

		return err
	}
}
