// Package doctor runs interactive capture diagnostics against the real
// audio host.
package doctor

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"mictap/capture"
)

// Run executes the diagnostic checks and returns an exit code (0=all
// pass, 1=any fail).
func Run() int {
	setupInterruptHandler()

	fmt.Println("mictap doctor - capture diagnostics")
	fmt.Println("===================================")

	allPass := true

	host, ok := checkHost()
	if !ok {
		allPass = false
	}
	if host != nil {
		defer host.Close()
	}

	var manager *capture.Manager
	var count atomic.Uint64
	if allPass {
		manager = capture.NewManager(host, capture.SinkFunc(func(_ string, f capture.Frame) error {
			count.Add(uint64(len(f.Samples)))
			return nil
		}))
		if !checkEnumeration(manager) {
			allPass = false
		}
	}
	if allPass && !checkCapture(manager, &count) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted")
		os.Exit(1)
	}()
}

func checkHost() (capture.Host, bool) {
	fmt.Println()
	fmt.Println("[1/3] Audio host")

	host, err := capture.NewHost()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio host: %v\n", err)
		return nil, false
	}
	fmt.Println("  PASS: audio host reachable")
	return host, true
}

func checkEnumeration(manager *capture.Manager) bool {
	fmt.Println()
	fmt.Println("[2/3] Device enumeration")

	devices, err := manager.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}
	for _, d := range devices {
		fmt.Printf("    %-12s %s\n", d.ID, d.Name)
	}
	fmt.Printf("  PASS: %d device(s) found\n", len(devices))
	return true
}

func checkCapture(manager *capture.Manager, count *atomic.Uint64) bool {
	fmt.Println()
	fmt.Println("[3/3] Capture (2 seconds from default device)")

	count.Store(0)
	if err := manager.Start("default"); err != nil {
		fmt.Printf("  FAIL: cannot start capture: %v\n", err)
		return false
	}

	time.Sleep(2 * time.Second)
	manager.Stop()

	samples := count.Load()
	if samples == 0 {
		fmt.Println("  FAIL: no samples delivered (stream never came up; check the diagnostics log)")
		return false
	}
	fmt.Printf("  PASS: %d samples captured\n", samples)
	return true
}
