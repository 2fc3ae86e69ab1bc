package main

import (
	"flag"
	"log"
	"os"

	spb "github.com/vikesh-raj/go-sentencepiece-encoder/sentencepiece"
	"github.com/wbrown/hf2spm"
	"github.com/wbrown/hf2spm/resources"
	"github.com/wbrown/hf2spm/sentencepiece"
	"google.golang.org/protobuf/proto"
)

func main() {
	input := flag.String("input", "",
		"local directory, URL, or huggingface id holding "+
			"tokenizer_config.json and tokenizer.json")
	output := flag.String("output", "tokenizer.model",
		"path to write the sentencepiece model to")
	authToken := flag.String("auth-token", "",
		"huggingface bearer token for gated models")
	verify := flag.Bool("verify", false,
		"read the written model back and report its contents")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		log.Fatal("Must provide -input")
	}
	if *output == "" {
		flag.Usage()
		log.Fatal("Must provide -output")
	}

	scratchDir, tmpErr := os.MkdirTemp("", "hf2spm")
	if tmpErr != nil {
		log.Fatalf("Error creating download directory: %v", tmpErr)
	}
	defer os.RemoveAll(scratchDir)
	hfDir, resolveErr := resources.ResolveTokenizer(*input, scratchDir,
		*authToken)
	if resolveErr != nil {
		log.Fatalf("Error resolving tokenizer: %v", resolveErr)
	}

	if convertErr := hf2spm.ConvertFiles(hfDir, *output); convertErr != nil {
		log.Fatalf("Error converting tokenizer: %v", convertErr)
	}
	log.Printf("Wrote %s", *output)

	if *verify {
		verifyModel(*output)
	}
}

// verifyModel reads the written model back through independently
// generated protobuf bindings and reports what it holds.
func verifyModel(modelPath string) {
	data, readErr := os.ReadFile(modelPath)
	if readErr != nil {
		log.Fatalf("Error reading %s back: %v", modelPath, readErr)
	}
	var model spb.ModelProto
	if err := proto.Unmarshal(data, &model); err != nil {
		log.Fatalf("Error parsing %s: %v", modelPath, err)
	}

	pieces := model.GetPieces()
	unknown := 0
	userDefined := 0
	for _, piece := range pieces {
		switch piece.GetType() {
		case spb.ModelProto_SentencePiece_UNKNOWN:
			unknown++
		case spb.ModelProto_SentencePiece_USER_DEFINED:
			userDefined++
		}
	}
	log.Printf("Model holds %d pieces: %d unknown, %d user defined",
		len(pieces), unknown, userDefined)

	trainer := model.GetTrainerSpec()
	if trainer.GetModelType() != spb.TrainerSpec_BPE {
		log.Fatalf("Trainer model type is %v, want BPE",
			trainer.GetModelType())
	}
	if trainer.GetVocabSize() != int32(len(pieces)) {
		log.Fatalf("Trainer vocab size %d does not match %d pieces",
			trainer.GetVocabSize(), len(pieces))
	}

	norm := model.GetNormalizerSpec()
	if norm.GetAddDummyPrefix() || norm.GetRemoveExtraWhitespaces() ||
		norm.GetEscapeWhitespaces() {
		log.Fatal("Normalizer flags are not all cleared")
	}
	charsMap, decodeErr := sentencepiece.DecodeCharsMap(
		norm.GetPrecompiledCharsmap())
	if decodeErr != nil {
		log.Fatalf("Error decoding normalizer charsmap: %v", decodeErr)
	}
	log.Printf("Normalizer charsmap holds %d byte substitutions",
		len(charsMap))
}
