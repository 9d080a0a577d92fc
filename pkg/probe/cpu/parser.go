package cpu

import (
	"bufio"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/EESSI/stackinit/pkg/host"
)

// cpuInfo holds the raw fields scraped from a cpuinfo file. The tag names
// cover the key spellings across platforms: x86_64 reports vendor_id, model
// name and flags; aarch64 reports Features and a hex CPU implementer code;
// ppc64le names the processor in its cpu field.
type cpuInfo struct {
	VendorID    string `cpuinfo:"vendor_id"`
	ModelName   string `cpuinfo:"model name"`
	Flags       string `cpuinfo:"flags"`
	Features    string `cpuinfo:"Features"`
	Implementer string `cpuinfo:"CPU implementer"`
	PowerModel  string `cpuinfo:"cpu"`
}

// implementerVendors maps aarch64 "CPU implementer" codes to vendor names.
var implementerVendors = map[string]string{
	"0x41": "ARM",
	"0x42": "Broadcom",
	"0x43": "Cavium",
	"0x46": "FUJITSU",
	"0x4e": "NVIDIA",
	"0x50": "APM",
	"0x51": "Qualcomm",
	"0x61": "Apple",
	"0x69": "Intel",
	"0xc0": "Ampere",
}

var reColumns = regexp.MustCompile(`\t+: `)

// parseCPUInfo scrapes the first occurrence of each known key, which keeps
// the values of the first processor block; later blocks repeat them.
func parseCPUInfo(r io.Reader) (*cpuInfo, error) {
	info := &cpuInfo{}
	t := reflect.TypeOf(info).Elem()
	v := reflect.ValueOf(info).Elem()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		sl := reColumns.Split(scanner.Text(), 2)
		if len(sl) != 2 {
			continue
		}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Tag.Get("cpuinfo") != sl[0] {
				continue
			}
			if f := v.FieldByName(field.Name); f.String() == "" {
				f.SetString(strings.TrimSpace(sl[1]))
			}
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return info, nil
}

// snapshot assembles a host snapshot from the scraped fields.
func (info *cpuInfo) snapshot(machine, source string) *host.CPU {
	cpu := &host.CPU{
		MachineType: machine,
		Source:      source,
	}

	switch {
	case info.VendorID != "":
		cpu.VendorID = info.VendorID
	case info.Implementer != "":
		cpu.VendorID = implementerVendors[strings.ToLower(info.Implementer)]
	}

	if info.ModelName != "" {
		cpu.ModelName = info.ModelName
	} else {
		cpu.ModelName = info.PowerModel
	}

	if info.Flags != "" {
		cpu.Flags = strings.Fields(info.Flags)
	} else {
		cpu.Flags = strings.Fields(info.Features)
	}

	return cpu
}
