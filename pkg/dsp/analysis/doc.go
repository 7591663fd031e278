// Package analysis provides level-metering tools for the synth's master
// bus tap.
//
// Level Metering:
//   - Peak meter with hold and decay
//   - RMS (Root Mean Square) meter
//   - LUFS meter (ITU-R BS.1770-4 compliant), momentary and integrated
//
// All meters are designed for real-time operation with minimal
// allocations and thread-safe access.
//
// Example usage:
//
//	peak := analysis.NewPeakMeter(48000)
//	rms := analysis.NewRMSMeter(1024)
//	lufs := analysis.NewLUFSMeter(48000, 1)
//
//	peak.Process(samples)
//	rms.Process(samples)
//	lufs.Process(samples)
//
//	peakDB := peak.GetPeakDB()
//	rmsDB := rms.GetRMSDB()
//	momentary := lufs.GetMomentaryLUFS()
package analysis
