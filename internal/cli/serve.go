package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/vburojevic/platescan/internal/auth"
	"github.com/vburojevic/platescan/internal/config"
	"github.com/vburojevic/platescan/internal/ocr/engines"
	"github.com/vburojevic/platescan/internal/output"
	"github.com/vburojevic/platescan/internal/server"
)

// ServeCmd runs the HTTP API
type ServeCmd struct {
	Addr    string   `help:"Listen address (overrides server.addr)" placeholder:"HOST:PORT"`
	Engines []string `help:"OCR engines in fallback order (overrides ocr.engines)" sep:","`
	NoTLS   bool     `name:"no-tls" help:"Serve plain HTTP even when the certificate and key exist"`
}

// Run executes the serve command
func (c *ServeCmd) Run(globals *Globals) error {
	cfg := c.effectiveConfig(globals.Config)
	if err := cfg.Validate(); err != nil {
		return outputErrorCommon(globals, "CONFIG_INVALID", err.Error(), "run `platescan doctor` to inspect the configuration")
	}
	logger := globals.logger()

	users, err := auth.NewUsers(config.ParseUsers(cfg.Auth.Users))
	if err != nil {
		return outputErrorCommon(globals, "USERS_INVALID", err.Error(), "set LOGIN_USERS=user:password[,user2:password2]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc, err := engines.NewProcessor(ctx, cfg, &http.Client{}, logger.Named("ocr"))
	if err != nil {
		return outputErrorCommon(globals, "NO_OCR_ENGINE", err.Error(), "set GEMINI_API_KEY or OCRSPACE_API_KEY, or build with -tags tesseract")
	}

	srv, err := server.New(server.Options{
		Config:     cfg,
		Users:      users,
		Recognizer: proc,
		Logger:     logger.Named("server"),
	})
	if err != nil {
		return outputErrorCommon(globals, "SERVER_INIT_FAILED", err.Error())
	}

	if cfg.Auth.Users == config.Default().Auth.Users {
		emitWarning(globals, "using the built-in demo accounts; set LOGIN_USERS before exposing the server")
	}
	if !globals.Quiet {
		if err := c.writeBanner(globals, cfg, srv.TLS(), proc.Engines(), users.Names()); err != nil {
			logger.Debug("Banner write failed", zap.Error(err))
		}
	}

	if err := srv.Run(ctx); err != nil {
		return outputErrorCommon(globals, "SERVER_FAILED", err.Error())
	}
	return nil
}

// effectiveConfig applies flag overrides to a copy of the loaded config
func (c *ServeCmd) effectiveConfig(base *config.Config) *config.Config {
	if base == nil {
		base = config.Default()
	}
	cfg := *base
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if len(c.Engines) > 0 {
		cfg.OCR.Engines = nil
		for _, e := range c.Engines {
			if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
				cfg.OCR.Engines = append(cfg.OCR.Engines, e)
			}
		}
	}
	if c.NoTLS {
		cfg.Server.TLSCert = ""
		cfg.Server.TLSKey = ""
	}
	return &cfg
}

func (c *ServeCmd) writeBanner(globals *Globals, cfg *config.Config, tls bool, engineNames, userNames []string) error {
	urls := serverURLs(cfg.Server.Addr, tls)

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteServerReady(&output.ServerReadyOutput{
			Addr:    cfg.Server.Addr,
			URLs:    urls,
			TLS:     tls,
			Engines: engineNames,
			Users:   userNames,
		})
	}

	s := output.StylesFor(globals.Stdout)
	var b strings.Builder
	b.WriteString(s.Title.Render("platescan "+Version) + "\n")
	for i, u := range urls {
		label := "Local:"
		if i > 0 {
			label = "Network:"
		}
		fmt.Fprintf(&b, "  %s %s\n", s.Label.Render(fmt.Sprintf("%-9s", label)), s.URL.Render(u))
	}
	if tls {
		fmt.Fprintf(&b, "  %s %s\n", s.Label.Render("TLS:     "), s.Success.Render("on")+" "+s.Muted.Render(cfg.Server.TLSCert))
	} else {
		fmt.Fprintf(&b, "  %s %s\n", s.Label.Render("TLS:     "), s.Warning.Render("off")+" "+s.Muted.Render("(phone cameras need HTTPS outside localhost)"))
	}
	fmt.Fprintf(&b, "  %s %s\n", s.Label.Render("Engines: "), s.Value.Render(strings.Join(engineNames, " → ")))
	fmt.Fprintf(&b, "  %s %s\n", s.Label.Render("Users:   "), s.Value.Render(strings.Join(userNames, ", ")))
	_, err := fmt.Fprint(globals.Stdout, b.String())
	return err
}

// serverURLs lists the loopback URL first, then one per non-loopback IPv4
// address when the server binds every interface.
func serverURLs(addr string, tls bool) []string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return []string{scheme + "://" + addr}
	}

	if host != "" && host != "0.0.0.0" && host != "::" {
		return []string{scheme + "://" + net.JoinHostPort(host, port)}
	}

	urls := []string{scheme + "://" + net.JoinHostPort("localhost", port)}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return urls
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() || ipNet.IP.To4() == nil {
			continue
		}
		urls = append(urls, scheme+"://"+net.JoinHostPort(ipNet.IP.String(), port))
	}
	return urls
}
