package univ3

// FactoryABI covers the single factory method we need: resolving a pool
// address from a token pair and fee tier. Both PancakeSwap V3 and Uniswap V3
// factories expose the same signature.
const FactoryABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "tokenA", "type": "address"},
			{"internalType": "address", "name": "tokenB", "type": "address"},
			{"internalType": "uint24", "name": "fee", "type": "uint24"}
		],
		"name": "getPool",
		"outputs": [
			{"internalType": "address", "name": "pool", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// PoolABI covers the pool views used to price a pool. slot0 is deliberately
// absent: PancakeSwap and Uniswap disagree on its tail fields (uint32 vs
// uint8 feeProtocol), so the reader decodes only its leading word raw.
const PoolABI = `[
	{
		"inputs": [],
		"name": "token0",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "token1",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "fee",
		"outputs": [{"internalType": "uint24", "name": "", "type": "uint24"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// slot0Selector is the 4-byte selector of slot0(), keccak256("slot0()")[:4].
var slot0Selector = []byte{0x38, 0x50, 0xc7, 0xbd}
