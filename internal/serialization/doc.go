// Package serialization provides the native .mgrd format for saving and
// loading parameter state dictionaries.
//
//	Format Structure:
//	  [64 bytes: fixed header]
//	    0x00-0x03  Magic "MGRD"
//	    0x04-0x07  Version (uint32 LE)
//	    0x08-0x0B  Flags (uint32 LE)
//	    0x0C-0x0F  Reserved
//	    0x10-0x17  Header size (uint64 LE)
//	    0x18-0x1F  Data size (uint64 LE)
//	    0x20-0x3F  SHA-256 of the data section
//	  [Header: JSON metadata]
//	  [Padding to a 64-byte boundary]
//	  [Tensor data: float64 LE, tensors in name order]
//
// Only node values are stored. Gradients and graph structure are not.
//
// Example usage:
//
//	if err := serialization.Save("model.mgrd", model.StateDict(), "Sequential", nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	stateDict, header, err := serialization.Load("model.mgrd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model.LoadStateDict(stateDict)
package serialization
