package sentencepiece

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// PieceType mirrors ModelProto.SentencePiece.Type from
// sentencepiece_model.proto.
type PieceType int32

const (
	PIECE_NORMAL       PieceType = 1
	PIECE_UNKNOWN      PieceType = 2
	PIECE_CONTROL      PieceType = 3
	PIECE_USER_DEFINED PieceType = 4
	PIECE_UNUSED       PieceType = 5
	PIECE_BYTE         PieceType = 6
)

// ModelType mirrors TrainerSpec.ModelType.
type ModelType int32

const (
	MODEL_UNIGRAM ModelType = 1
	MODEL_BPE     ModelType = 2
	MODEL_WORD    ModelType = 3
	MODEL_CHAR    ModelType = 4
)

// Piece is one vocabulary entry of the model.
type Piece struct {
	Piece string
	Score float32
	Type  PieceType
}

// TrainerSpec carries the model metadata a converted tokenizer records.
type TrainerSpec struct {
	ModelType ModelType
	VocabSize int32
}

// NormalizerSpec describes one normalization pass. The three flags are
// always written, cleared or not, since a reader treats an absent flag
// as enabled.
type NormalizerSpec struct {
	Name                   string
	PrecompiledCharsMap    []byte
	AddDummyPrefix         bool
	RemoveExtraWhitespaces bool
	EscapeWhitespaces      bool
}

// Model is the subset of the sentencepiece ModelProto a converted
// tokenizer carries: the pieces, the trainer metadata, and the forward
// and inverse normalization passes.
type Model struct {
	Pieces       []Piece
	Trainer      TrainerSpec
	Normalizer   NormalizerSpec
	Denormalizer NormalizerSpec
}

// Field numbers from sentencepiece_model.proto.
const (
	fieldModelPieces       = 1
	fieldModelTrainer      = 2
	fieldModelNormalizer   = 3
	fieldModelDenormalizer = 5

	fieldPiecePiece = 1
	fieldPieceScore = 2
	fieldPieceType  = 3

	fieldTrainerModelType = 3
	fieldTrainerVocabSize = 4

	fieldNormName        = 1
	fieldNormCharsMap    = 2
	fieldNormDummyPrefix = 3
	fieldNormExtraWS     = 4
	fieldNormEscapeWS    = 5
)

// Marshal
// Serializes the model in protobuf wire format. Fields go out in field
// number order, so equal models always marshal to equal bytes.
func (model *Model) Marshal() []byte {
	out := make([]byte, 0, 16*len(model.Pieces))
	for i := range model.Pieces {
		out = protowire.AppendTag(out, fieldModelPieces, protowire.BytesType)
		out = protowire.AppendBytes(out, model.Pieces[i].marshal())
	}
	out = protowire.AppendTag(out, fieldModelTrainer, protowire.BytesType)
	out = protowire.AppendBytes(out, model.Trainer.marshal())
	out = protowire.AppendTag(out, fieldModelNormalizer, protowire.BytesType)
	out = protowire.AppendBytes(out, model.Normalizer.marshal())
	out = protowire.AppendTag(out, fieldModelDenormalizer,
		protowire.BytesType)
	out = protowire.AppendBytes(out, model.Denormalizer.marshal())
	return out
}

func (piece *Piece) marshal() []byte {
	out := protowire.AppendTag(nil, fieldPiecePiece, protowire.BytesType)
	out = protowire.AppendString(out, piece.Piece)
	out = protowire.AppendTag(out, fieldPieceScore, protowire.Fixed32Type)
	out = protowire.AppendFixed32(out, math.Float32bits(piece.Score))
	out = protowire.AppendTag(out, fieldPieceType, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(int64(piece.Type)))
	return out
}

func (spec *TrainerSpec) marshal() []byte {
	out := protowire.AppendTag(nil, fieldTrainerModelType,
		protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(int64(spec.ModelType)))
	out = protowire.AppendTag(out, fieldTrainerVocabSize,
		protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(int64(spec.VocabSize)))
	return out
}

func (spec *NormalizerSpec) marshal() []byte {
	var out []byte
	if spec.Name != "" {
		out = protowire.AppendTag(out, fieldNormName, protowire.BytesType)
		out = protowire.AppendString(out, spec.Name)
	}
	out = protowire.AppendTag(out, fieldNormCharsMap, protowire.BytesType)
	out = protowire.AppendBytes(out, spec.PrecompiledCharsMap)
	out = protowire.AppendTag(out, fieldNormDummyPrefix,
		protowire.VarintType)
	out = protowire.AppendVarint(out, protowire.EncodeBool(
		spec.AddDummyPrefix))
	out = protowire.AppendTag(out, fieldNormExtraWS, protowire.VarintType)
	out = protowire.AppendVarint(out, protowire.EncodeBool(
		spec.RemoveExtraWhitespaces))
	out = protowire.AppendTag(out, fieldNormEscapeWS, protowire.VarintType)
	out = protowire.AppendVarint(out, protowire.EncodeBool(
		spec.EscapeWhitespaces))
	return out
}
