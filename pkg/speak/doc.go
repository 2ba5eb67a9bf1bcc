// Package speak synthesizes answer text to speech and plays it.
//
// A Synthesizer turns a string into a PCM stream; OpenAISynthesizer
// implements it with the OpenAI speech endpoint. A Speaker streams
// utterances to an output sink one at a time: starting a new utterance
// cancels the one in progress, and Stop cancels without starting. The
// session teardown path always calls Stop so no speech outlives the
// session that requested it.
//
//	synth, _ := speak.NewOpenAISynthesizer(speak.OpenAIConfig{APIKey: key})
//	speaker := speak.NewSpeaker(synth, sink, nil)
//	speaker.Say(ctx, "Tell them about the migration project.")
//	defer speaker.Stop()
package speak
