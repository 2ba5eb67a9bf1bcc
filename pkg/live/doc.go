// Package live provides a client for the Gemini Live API over WebSocket.
//
// The Live API carries a bidirectional stream: the client sends 16 kHz
// PCM audio and text turns, the server answers with transcripts, text
// and 24 kHz PCM audio, interleaved with turn markers.
//
// # Connecting
//
// A session is ready once Connect returns; the setup handshake has
// already completed:
//
//	client := live.NewClient(apiKey)
//	session, err := client.Connect(ctx, &live.SessionConfig{
//	    SystemInstruction:   "You are an interview assistant.",
//	    InputTranscription:  true,
//	    OutputTranscription: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
// # Sending Audio
//
// Audio is little-endian 16-bit mono PCM at 16 kHz; the session wraps it
// in the transport envelope:
//
//	err = session.SendAudio(pcmData)
//
// # Receiving Events
//
// Use the Events iterator to receive server events in arrival order:
//
//	for event, err := range session.Events() {
//	    if err != nil {
//	        return err
//	    }
//	    switch event.Type {
//	    case live.EventAudio:
//	        play(event.Audio)
//	    case live.EventOutputTranscript:
//	        fmt.Print(event.Text)
//	    }
//	}
package live
