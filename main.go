package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"mictap/capture"
	"mictap/doctor"
	"mictap/log"
)

var version = "dev"

func main() {
	run()
}

func run() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad environment config: %v\n", err)
		os.Exit(1)
	}

	listFlag := flag.Bool("list", false, "List capture devices and exit")
	deviceFlag := flag.String("device", cfg.Device, "Capture device id (default or device_<n>)")
	pickFlag := flag.Bool("pick", false, "Select capture device interactively")
	notuiFlag := flag.Bool("notui", cfg.NoTUI, "Run without the terminal UI")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run capture diagnostics and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.Parse()

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if *versionFlag {
		fmt.Printf("mictap %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *doctorFlag {
		os.Exit(doctor.Run())
	}

	host, err := capture.NewHost()
	if err != nil {
		log.Errorf("audio host init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio host: %v\n", err)
		os.Exit(1)
	}
	defer host.Close()

	meter := newLevelMeter()
	manager := capture.NewManager(host, meter.sink())

	if *listFlag {
		devices, err := manager.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(devices) == 0 {
			fmt.Println("No capture devices found.")
			return
		}
		for _, d := range devices {
			fmt.Printf("  %-12s %s\n", d.ID, d.Name)
		}
		return
	}

	deviceID := *deviceFlag
	if *pickFlag {
		picked, err := capture.SelectDevice(manager)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		deviceID = picked.ID
		fmt.Printf("Using %s (%s)\n", picked.Name, picked.ID)
	}

	if err := manager.Start(deviceID); err != nil {
		log.Errorf("capture start error: %v", err)
		fmt.Fprintf(os.Stderr, "Error starting capture: %v\n", err)
		os.Exit(1)
	}
	log.Infof("capture started on %s", deviceID)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	metricsDone := make(chan struct{})
	go meter.reportLoop(metricsDone)

	if *notuiFlag {
		fmt.Printf("Capturing from %s  (Ctrl+C to stop)\n", deviceID)
		<-stop
	} else {
		if err := runTUI(manager, deviceID, meter, stop); err != nil {
			log.Errorf("tui error: %v", err)
		}
	}

	close(metricsDone)
	manager.Stop()

	frames, buffers := meter.totals()
	fmt.Printf("Captured %d samples in %d buffers.\n", frames, buffers)
}
