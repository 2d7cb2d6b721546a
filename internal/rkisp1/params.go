// Package rkisp1 models the per-frame parameter buffer consumed by the
// Rockchip ISP1 driver.
//
// Only the parts of the buffer written by the calibration algorithms are
// represented. Field names follow the kernel UAPI layout so values can be
// copied into the real buffer without translation.
package rkisp1

import (
	"fmt"
	"strings"
)

// Module is a bit in the module enable/update masks of a parameter buffer.
type Module uint32

// ISP module bits, in kernel UAPI order.
const (
	ModuleDPCC        Module = 1 << 0
	ModuleBLS         Module = 1 << 1
	ModuleSDG         Module = 1 << 2
	ModuleHST         Module = 1 << 3
	ModuleLSC         Module = 1 << 4
	ModuleAWBGain     Module = 1 << 5
	ModuleFLT         Module = 1 << 6
	ModuleBDM         Module = 1 << 7
	ModuleCTK         Module = 1 << 8
	ModuleGOC         Module = 1 << 9
	ModuleCPROC       Module = 1 << 10
	ModuleAFC         Module = 1 << 11
	ModuleAWB         Module = 1 << 12
	ModuleIE          Module = 1 << 13
	ModuleAEC         Module = 1 << 14
	ModuleWDR         Module = 1 << 15
	ModuleDPF         Module = 1 << 16
	ModuleDPFStrength Module = 1 << 17
)

var moduleNames = []struct {
	bit  Module
	name string
}{
	{ModuleDPCC, "dpcc"},
	{ModuleBLS, "bls"},
	{ModuleSDG, "sdg"},
	{ModuleHST, "hst"},
	{ModuleLSC, "lsc"},
	{ModuleAWBGain, "awb_gain"},
	{ModuleFLT, "flt"},
	{ModuleBDM, "bdm"},
	{ModuleCTK, "ctk"},
	{ModuleGOC, "goc"},
	{ModuleCPROC, "cproc"},
	{ModuleAFC, "afc"},
	{ModuleAWB, "awb"},
	{ModuleIE, "ie"},
	{ModuleAEC, "aec"},
	{ModuleWDR, "wdr"},
	{ModuleDPF, "dpf"},
	{ModuleDPFStrength, "dpf_strength"},
}

// Names returns the lower-case names of the modules set in the mask, in bit
// order. Unknown bits are rendered as hex.
func (m Module) Names() []string {
	names := []string{}
	rest := m
	for _, mn := range moduleNames {
		if m&mn.bit != 0 {
			names = append(names, mn.name)
			rest &^= mn.bit
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return names
}

func (m Module) String() string {
	if m == 0 {
		return "none"
	}
	return strings.Join(m.Names(), "|")
}

// Window is a rectangular measurement window in sensor pixels.
type Window struct {
	HOffs uint16 `json:"h_offs"`
	VOffs uint16 `json:"v_offs"`
	HSize uint16 `json:"h_size"`
	VSize uint16 `json:"v_size"`
}

// BLSFixedVal holds the fixed black level subtracted from each Bayer channel.
// Values are in the 12-bit domain of the ISP.
type BLSFixedVal struct {
	R  int16 `json:"r"`
	Gr int16 `json:"gr"`
	Gb int16 `json:"gb"`
	B  int16 `json:"b"`
}

// BLSConfig configures the black level subtraction block.
type BLSConfig struct {
	EnableAuto bool        `json:"enable_auto"`
	EnWindows  uint8       `json:"en_windows"`
	Window1    Window      `json:"bls_window1"`
	Window2    Window      `json:"bls_window2"`
	Samples    uint8       `json:"bls_samples"`
	FixedVal   BLSFixedVal `json:"fixed_val"`
}

// OtherConfigs groups the per-module configuration blocks.
type OtherConfigs struct {
	BLSConfig BLSConfig `json:"bls_config"`
}

// Params is one frame's worth of ISP configuration.
//
// A module bit in ModuleEnUpdate tells the driver to apply the matching bit
// of ModuleEns (enable or disable the module). A bit in ModuleCfgUpdate tells
// it to reprogram the module from Others.
type Params struct {
	ModuleEnUpdate  Module       `json:"module_en_update"`
	ModuleEns       Module       `json:"module_ens"`
	ModuleCfgUpdate Module       `json:"module_cfg_update"`
	Others          OtherConfigs `json:"others"`
}

// NewParams returns an empty parameter buffer.
func NewParams() *Params {
	return &Params{}
}

// Reset clears the buffer so it can be reused for the next frame.
func (p *Params) Reset() {
	*p = Params{}
}

// EnableModule marks m as updated, enabled and reconfigured for this frame.
func (p *Params) EnableModule(m Module) {
	p.ModuleEnUpdate |= m
	p.ModuleEns |= m
	p.ModuleCfgUpdate |= m
}

// ModuleUpdated reports whether m is enabled and has a configuration update
// pending in this buffer.
func (p *Params) ModuleUpdated(m Module) bool {
	return p.ModuleEnUpdate&m != 0 && p.ModuleEns&m != 0 && p.ModuleCfgUpdate&m != 0
}
