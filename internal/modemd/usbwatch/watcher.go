package usbwatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DiscoResearchSat/go-udev/netlink"
	"github.com/dragonfly-cell/modemd/pkg/fn"
	"github.com/dragonfly-cell/modemd/pkg/log"
	"github.com/dragonfly-cell/modemd/pkg/misc"
	"github.com/google/gousb"
	"go.uber.org/zap"
)

const (
	// WaitForDevice timeouts get clamped into this range
	minWaitTimeout = time.Second
	maxWaitTimeout = 5 * time.Minute
)

type Watcher struct {
	sync.Mutex
	sync.WaitGroup

	// A map of currently connected devices
	devices DeviceMap
	// Closed and replaced whenever the device map changes
	changeChannel chan struct{}
	// Channel to close the udev monitor if its enabled
	udevCloseChannel chan struct{}
	// The udev event connection, if not nil, udev monitoring is active
	udev *netlink.UEventConn
}

func NewWatcher() *Watcher {
	w := &Watcher{
		devices:          make(DeviceMap),
		changeChannel:    make(chan struct{}),
		udev:             new(netlink.UEventConn),
		udevCloseChannel: make(chan struct{}),
	}

	// Connect to udev
	if err := w.udev.Connect(netlink.UdevEvent); err != nil {
		log.Error("Could not connect to udev, hotplug support not available!", zap.Error(err))
		w.udev = nil
	} else {
		// run monitor
		w.Add(1)
		go w.monitor()
	}

	return w
}

func (w *Watcher) FindSupportedDevices() DeviceMap {
	w.Lock()
	defer w.Unlock()

	usbCtx := gousb.NewContext()
	for devType, d := range SupportedDevices {
		dev, err := usbCtx.OpenDeviceWithVIDPID(d.VendorID, d.ProductID)
		if dev == nil {
			log.Debug("device not attached", zap.String("device", d.String()))
			continue
		}

		// close the device
		dev.Close()

		if err != nil {
			log.Error("error while iterating over usb devices", zap.Error(err))
			continue
		}

		// Add the device to the found devices
		w.devices[devType] = d
		log.Info("found supported device", zap.String("device", d.String()))
	}
	usbCtx.Close()

	w.notifyChangeLocked()
	return w.devices
}

// notifyChangeLocked wakes all WaitForDevice callers, callers hold the lock
func (w *Watcher) notifyChangeLocked() {
	close(w.changeChannel)
	w.changeChannel = make(chan struct{})
}

func (w *Watcher) changed() <-chan struct{} {
	w.Lock()
	defer w.Unlock()
	return w.changeChannel
}

// DeviceAttached reports whether the given device is currently enumerated
func (w *Watcher) DeviceAttached(target DeviceType) bool {
	w.Lock()
	defer w.Unlock()

	_, attached := w.devices[target]
	return attached
}

// WaitForDevice blocks until the device enumerates, the timeout expires
// (misc.TimedOutError) or the context is canceled
func (w *Watcher) WaitForDevice(ctx context.Context, target DeviceType, timeout time.Duration) error {
	timeout = fn.Clamp(timeout, minWaitTimeout, maxWaitTimeout)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		// Grab the change channel before checking, no wakeup can get lost
		changed := w.changed()

		if w.DeviceAttached(target) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return misc.NewTimedOutError("usb device did not enumerate", timeout)
		case <-changed:
		}
	}
}

func (w *Watcher) HotplugReceived(vendorID uint16, productID uint16, wasAdded bool) {
	w.Lock()
	defer w.Unlock()

	// Try to find device, silently ignore if not supported
	tuple, found := FindSupportedDeviceTuple(gousb.ID(vendorID), gousb.ID(productID))
	if !found {
		log.Debug("no matching device found", zap.String("vid", gousb.ID(vendorID).String()), zap.String("pid", gousb.ID(productID).String()))
		return
	}

	// No further checks, no duplicates as key is unique
	if !wasAdded {
		delete(w.devices, tuple.DeviceType)
		log.Info("hotplug device removed", zap.String("device", tuple.Device.String()))
	} else {
		log.Info("hotplug device added", zap.String("device", tuple.Device.String()))
		w.devices[tuple.DeviceType] = tuple.Device
	}

	w.notifyChangeLocked()
}

func (w *Watcher) Shutdown() {
	w.Lock()

	// Close the udev monitor if it exists
	if w.udev != nil {
		log.Info("closing udev monitor channel")
		w.udevCloseChannel <- struct{}{}
	}

	w.Unlock()
	w.Wait()
}

// ResetDevice issues an usb level reset, with a vendor reset command
// tried first if the device has one
func (w *Watcher) ResetDevice(target DeviceType) error {
	w.Lock()
	defer w.Unlock()

	// Grab the details for more descriptive errors
	supd, exists := SupportedDevices[target]
	if !exists {
		return fmt.Errorf("device unknown, add it to the code")
	}

	d, exists := w.devices[target]
	if !exists {
		return NewNotFoundError(fmt.Sprintf("device with Name '%s' not attached", supd.Name))
	}

	// If the device has a dedicated reset CMD, try it first
	if d.ResetCMD != nil {
		err := d.ResetCMD.Run()
		if err == nil {
			log.Info("device reset cmd executed", zap.String("device", d.String()))
			return nil
		}

		log.Error("device reset with cmd failed, continuing", zap.String("device", d.String()), zap.Error(err))
	}

	// Try acquiring the device and issuing a simple usb reset
	usbCtx := gousb.NewContext()
	defer usbCtx.Close()
	dev, _ := usbCtx.OpenDeviceWithVIDPID(d.VendorID, d.ProductID)
	if dev == nil {
		log.Error("the device was detected previously, but disappeared!", zap.String("device", d.String()))
		return NewVanishedError(fmt.Sprintf("%s disappeared but was detected before", d.String()))
	}

	// Close when we are done
	defer dev.Close()

	if err := dev.Reset(); err != nil {
		log.Error("resetting usb device failed", zap.String("device", d.String()))
		return err
	}

	return nil
}

// Monitor events
func (w *Watcher) monitor() {
	errs := make(chan error)

	// BIND OR UNBIND
	matchRule := fmt.Sprintf("%s|%s", netlink.BIND, netlink.UNBIND)
	deviceMatcher := &netlink.RuleDefinitions{
		Rules: []netlink.RuleDefinition{
			{
				// Only match usb_device binds and unbinds
				Action: &matchRule,
				Env: map[string]string{
					"DEVTYPE": "usb_device",
				},
			},
		},
	}

	// Start the monitor
	ctx, cancelUdevMonitor := context.WithCancel(context.Background())
	queue := w.udev.Monitor(ctx, errs, deviceMatcher)

	// Defer the channel closing and marking wg as done
	defer func() {
		w.Lock()
		w.udev.Close()
		w.Done()
		w.Unlock()
	}()

udevMonitorLoop:
	for {
		select {
		case <-w.udevCloseChannel:
			// Wait until the queue terminates
			cancelUdevMonitor()
			// Wait for context-cancelled error
			<-errs
			break udevMonitorLoop

		case uevent := <-queue:
			pstr, pok := uevent.Env["PRODUCT"]
			if !pok {
				log.Debug("device did not contain product indicator", zap.Any("env", uevent.String()))
				continue
			}

			// Split at "/" e.g "PRODUCT":"1546/1102/100" VID/PID/REVISION
			s := strings.Split(pstr, "/")
			if len(s) < 2 {
				log.Error("malformed product string", zap.String("product", pstr))
				continue
			}

			vidStr := s[0]
			pidStr := s[1]

			// Check for empty string
			var vid, pid uint16
			var err error
			if vid, err = ParseHexUINT16(vidStr); err != nil {
				log.Error("could not parse hex vid", zap.String("vidStr", vidStr))
				continue
			}
			if pid, err = ParseHexUINT16(pidStr); err != nil {
				log.Error("could not parse hex pid", zap.String("pidStr", pidStr))
				continue
			}

			// Forward the event to the usb matcher
			w.HotplugReceived(vid, pid, uevent.Action == netlink.BIND)
		case err := <-errs:
			log.Error("udev monitor encountered an error", zap.Error(err))
		}
	}

	log.Info("stopped observing udev events")
}
