// Package capture records microphone or system audio as a stream of
// fixed-size float32 frames at 16 kHz.
//
// A capture pulls little-endian int16 audio from a PortAudio input
// stream into a blocking pipe, resamples system audio from the device's
// native rate, and assembles the result into FrameSize-sample frames:
//
//	cap, err := capture.Open(capture.Config{Source: capture.SourceSystem})
//	if err != nil {
//	    // capture.ErrNoSystemAudio: no loopback input on this host
//	    log.Fatal(err)
//	}
//	defer cap.Close()
//	for frame, err := range cap.Frames() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    send(pcm.EncodeLE16(frame))
//	}
//
// Captures are one-shot: after the frame sequence ends, for any reason,
// the device is released and a new capture must be opened to record
// again.
package capture
