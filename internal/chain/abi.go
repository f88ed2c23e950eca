package chain

// savingsABI is the external surface of the savings goal contract.
const savingsABI = `[
  {"type":"function","name":"createSavingsGoal","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"name":"_name","type":"string"},{"name":"_targetAmount","type":"uint256"},{"name":"_deadline","type":"uint256"}]},
  {"type":"function","name":"saveToGoal","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"name":"_goalId","type":"uint256"},{"name":"_amount","type":"uint256"}]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"name":"_goalId","type":"uint256"},{"name":"_amount","type":"uint256"}]},
  {"type":"function","name":"deleteGoal","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"name":"_goalId","type":"uint256"}]},
  {"type":"function","name":"getUserGoals","stateMutability":"view",
   "inputs":[{"name":"_user","type":"address"}],
   "outputs":[{"name":"","type":"tuple[]","internalType":"struct CeloSave.SavingsGoal[]","components":[
     {"name":"id","type":"uint256"},
     {"name":"name","type":"string"},
     {"name":"targetAmount","type":"uint256"},
     {"name":"currentAmount","type":"uint256"},
     {"name":"deadline","type":"uint256"},
     {"name":"createdAt","type":"uint256"},
     {"name":"isActive","type":"bool"},
     {"name":"streak","type":"uint256"}]}]},
  {"type":"function","name":"getTotalSavings","stateMutability":"view",
   "inputs":[{"name":"_user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getUserStreak","stateMutability":"view",
   "inputs":[{"name":"_user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"GoalCreated","anonymous":false,"inputs":[
     {"indexed":true,"name":"user","type":"address"},
     {"indexed":false,"name":"goalId","type":"uint256"},
     {"indexed":false,"name":"name","type":"string"},
     {"indexed":false,"name":"targetAmount","type":"uint256"}]},
  {"type":"event","name":"SavedToGoal","anonymous":false,"inputs":[
     {"indexed":true,"name":"user","type":"address"},
     {"indexed":false,"name":"goalId","type":"uint256"},
     {"indexed":false,"name":"amount","type":"uint256"}]},
  {"type":"event","name":"Withdrawn","anonymous":false,"inputs":[
     {"indexed":true,"name":"user","type":"address"},
     {"indexed":false,"name":"goalId","type":"uint256"},
     {"indexed":false,"name":"amount","type":"uint256"}]}
]`

// tokenABI is the subset of ERC-20 used to fund deposits.
const tokenABI = `[
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"allowance","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]}
]`
