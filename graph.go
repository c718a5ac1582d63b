package gozl

// Graph selects one of the engine's built-in compression strategy graphs at
// Compressor construction time. The zero value is the zstd fallback graph.
//
// Ids outside the known range are not an error: the native selection table
// silently falls back to GraphZstd. This permissiveness is part of the
// binding contract, so callers can pass ids read from untrusted metadata
// without pre-validating them.
type Graph int

const (
	GraphZstd           Graph = 0  // GraphZstd is the generic zstd fallback graph.
	GraphNumeric        Graph = 1  // GraphNumeric is the generic graph for fixed-width numeric data.
	GraphFieldLZ        Graph = 2  // GraphFieldLZ applies field-aware LZ to structured records.
	GraphStore          Graph = 3  // GraphStore stores the input without compression.
	GraphFSE            Graph = 4  // GraphFSE applies FSE entropy coding.
	GraphHuffman        Graph = 5  // GraphHuffman applies Huffman coding.
	GraphEntropy        Graph = 6  // GraphEntropy picks an entropy coder automatically.
	GraphBitpack        Graph = 7  // GraphBitpack packs values into minimal bit widths.
	GraphConstant       Graph = 8  // GraphConstant collapses constant runs.
	GraphSerialCompress Graph = 9  // GraphSerialCompress is the generic serial pipeline.
	GraphCSV            Graph = 10 // GraphCSV parses and compresses CSV input.
	GraphSDDL           Graph = 11 // GraphSDDL compresses via a data description language profile.
	GraphParquet        Graph = 12 // GraphParquet compresses Parquet-structured input.
)

func (g Graph) String() string {
	switch g {
	case GraphZstd:
		return "Zstd"
	case GraphNumeric:
		return "Numeric"
	case GraphFieldLZ:
		return "FieldLZ"
	case GraphStore:
		return "Store"
	case GraphFSE:
		return "FSE"
	case GraphHuffman:
		return "Huffman"
	case GraphEntropy:
		return "Entropy"
	case GraphBitpack:
		return "Bitpack"
	case GraphConstant:
		return "Constant"
	case GraphSerialCompress:
		return "SerialCompress"
	case GraphCSV:
		return "CSV"
	case GraphSDDL:
		return "SDDL"
	case GraphParquet:
		return "Parquet"
	default:
		return "Unknown"
	}
}
