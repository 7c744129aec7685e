package evm

// CoffeeABI is the ABI of the Coffee contract. The purchase function takes the
// supporter's message as its only argument; the reads take none.
const CoffeeABI = `[
	{
		"type": "function",
		"name": "buy_coffee",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "message", "type": "string"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "get_total_coffees",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "get_coffee_price",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "get_creator",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"type": "event",
		"name": "CoffeeBought",
		"anonymous": false,
		"inputs": [
			{"indexed": true,  "name": "buyer",   "type": "address"},
			{"indexed": false, "name": "message", "type": "string"},
			{"indexed": false, "name": "amount",  "type": "uint256"}
		]
	}
]`
