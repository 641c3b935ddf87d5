// SPDX-License-Identifier: EPL-2.0

package rtsfx_test

import (
	"fmt"

	"github.com/ik5/rtsfx"
	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/engine"
)

// Example_offlineRender renders a short pattern to 16-bit PCM.
func Example_offlineRender() {
	hits, err := rtsfx.ParsePattern("click@0,beep@250ms:0.5:-1")
	if err != nil {
		fmt.Println(err)
		return
	}

	r, err := rtsfx.NewPatternReader(hits, false, engine.WithSampleRate(8000))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer r.Close()

	pcm, err := rtsfx.CollectPCM16(r, 0, 0)
	if err != nil {
		fmt.Println(err)
		return
	}

	// the beep ends 350 ms in
	fmt.Println(r.Frames(), len(pcm))
	// Output:
	// 2800 5600
}

// Example_monoExport downmixes a rendering before collecting it.
func Example_monoExport() {
	hits, _ := rtsfx.ParsePattern("explosion@0")
	r, _ := rtsfx.NewPatternReader(hits, true, engine.WithSampleRate(8000))

	pcm, _ := rtsfx.CollectPCM16(audio.NewMonoMixer(r), 0, 0)
	fmt.Println(len(pcm))
	// Output:
	// 4000
}

func ExampleNewDefaultRegistry() {
	reg := rtsfx.NewDefaultRegistry()
	fmt.Println(reg.Names())

	src, err := reg.New(rtsfx.SourceCached, 44100)
	fmt.Println(src != nil, err)
	// Output:
	// [cached procedural tone]
	// true <nil>
}
