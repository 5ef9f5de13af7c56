package usbwatch

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/google/gousb"
)

type DeviceType int

const (
	Unknown DeviceType = iota
	// Modems
	ModemSARAR410M
	ModemSARAR412M
)

var (
	SupportedDevices = DeviceMap{
		ModemSARAR410M: {
			VendorID:  0x1546,
			ProductID: 0x1102,
			Name:      "u-blox SARA-R410M",
		},
		ModemSARAR412M: {
			VendorID:  0x1546,
			ProductID: 0x1106,
			Name:      "u-blox SARA-R412M",
		},
	}
)

type Device struct {
	ResetCMD  *exec.Cmd
	Name      string
	VendorID  gousb.ID
	ProductID gousb.ID
}

func (d *Device) String() string {
	return fmt.Sprintf("%s pid: %s vid: %s", d.Name, d.ProductID.String(), d.VendorID.String())
}

type DeviceMap map[DeviceType]*Device

type DeviceTuple struct {
	*Device
	DeviceType
}

func FindSupportedDeviceTuple(vendorID gousb.ID, productID gousb.ID) (DeviceTuple, bool) {
	for k, device := range SupportedDevices {
		if device.VendorID == vendorID && device.ProductID == productID {
			return DeviceTuple{DeviceType: k, Device: device}, true
		}
	}
	return DeviceTuple{}, false
}

func ParseHexUINT16(str string) (uint16, error) {
	val, err := strconv.ParseUint(str, 16, 16)
	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}
