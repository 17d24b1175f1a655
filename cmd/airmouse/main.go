package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/airmouse/internal/app"
	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/input"
	"github.com/ayusman/airmouse/internal/server"
	"github.com/ayusman/airmouse/internal/store"
	"github.com/ayusman/airmouse/internal/tray"
)

// options holds the command-line flags.
type options struct {
	camera    int
	fps       int
	rotation  int
	flipH     bool
	flipV     bool
	noPreview bool
	addr      string
	dbPath    string
	tray      bool
	keys      bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("airmouse", flag.ContinueOnError)
	fs.IntVar(&o.camera, "camera", 0, "camera device index")
	fs.IntVar(&o.fps, "fps", 0, "target processing rate, 10-100 (default ~60)")
	fs.IntVar(&o.rotation, "rotation", 0, "camera rotation in degrees: 0, 90, 180 or 270")
	fs.BoolVar(&o.flipH, "flip-h", false, "mirror the camera image left to right")
	fs.BoolVar(&o.flipV, "flip-v", false, "mirror the camera image top to bottom")
	fs.BoolVar(&o.noPreview, "no-preview", false, "do not draw or stream the preview")
	fs.StringVar(&o.addr, "addr", "127.0.0.1:8080", "HTTP listen address, empty to disable")
	fs.StringVar(&o.dbPath, "db", "", "recordings database (default ~/.airmouse/airmouse.db)")
	fs.BoolVar(&o.tray, "tray", false, "show the system tray menu")
	fs.BoolVar(&o.keys, "keys", false, "read hotkeys from stdin")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.fps != 0 && (o.fps < 10 || o.fps > 100) {
		return o, fmt.Errorf("-fps must be between 10 and 100, got %d", o.fps)
	}
	if o.rotation%90 != 0 {
		return o, fmt.Errorf("-rotation must be a multiple of 90, got %d", o.rotation)
	}
	return o, nil
}

// settings returns the startup settings selected by the flags.
func (o options) settings() config.Settings {
	s := config.Default()
	s.Orientation.Rotation = o.rotation
	s.Orientation.FlipHorizontal = o.flipH
	s.Orientation.FlipVertical = o.flipV
	if o.fps > 0 {
		s.Interval = config.IntervalForFPS(o.fps)
	}
	s.Preview = !o.noPreview
	return s.Clamped()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}

	fmt.Println("AirMouse - hand gesture pointer control")

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath, err = defaultDBPath()
		if err != nil {
			log.Fatalf("Failed to locate home directory: %v", err)
		}
	}
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := app.Config{
		Store:    st,
		CameraID: opts.camera,
		Settings: config.NewLive(opts.settings()),
	}
	if opts.keys {
		keys := input.NewKeySource(nil)
		go keys.Run(ctx, os.Stdin)
		cfg.Input = keys
		fmt.Println("Hotkeys: space click, c right click, r rotate, h/v flip, 0 reset, +/- speed, p preview")
	}

	a := app.New(cfg)

	var t *tray.Tray
	if opts.tray {
		t = tray.New()
		t.OnToggle(a.SetEnabled)
		t.OnCommand(func(e input.Event) { a.Send(e) })
		t.OnOpen(func() { log.Printf("Preview: http://%s/api/stream", opts.addr) })
		t.OnQuit(cancel)
		a.OnGesture(func(g gesture.Gesture) { t.SetLastGesture(g.String()) })
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	var httpSrv *http.Server
	var srv *server.Server
	if opts.addr != "" {
		srv = server.New(server.Config{StaticDir: findWebDir(), Store: st, App: a})
		httpSrv = &http.Server{Addr: opts.addr, Handler: srv}
		go func() {
			fmt.Printf("Starting server on %s\n", opts.addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Server failed: %v", err)
				cancel()
			}
		}()
	}

	if t != nil {
		// the tray owns the main thread until it quits
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		t.Run()
		cancel()
	} else {
		<-ctx.Done()
	}

	log.Println("Shutting down")
	if httpSrv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
		done()
		srv.Close()
	}
	a.Stop()
}

func defaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".airmouse", "airmouse.db"), nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.airmouse/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".airmouse", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
