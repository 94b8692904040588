package config

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Environment = "development" # "production" or "development"
Level = "info"
Outputs = ["stderr"]

[Server]
Host = "0.0.0.0"
Port = 8545
ReadTimeout = "60s"
WriteTimeout = "60s"
MaxRequestsPerIPAndSecond = 500
EnableHttpLog = true
BatchRequestsEnabled = false
BatchRequestsLimit = 20
AllowedOrigins = []
ReplacementTimeout = "30s"

[DB]
User = "tracker_user"
Password = "tracker_password"
Name = "tracker_db"
Host = "zkevm-tx-tracker-db"
Port = "5432"
EnableLog = false
MaxConns = 20

[Persistence]
Backend = "file"
FilePath = "./tx-tracker-state.json"

[Monitor]
Workers = 5
QueueSize = 25
PollInterval = "5s"
InitialWaitInterval = "3s"
RetryWaitInterval = "3s"
TxLifeTimeMax = "30m"
BatchPollInterval = "5s"
BridgePollInterval = "10s"
OrderPollInterval = "5s"
APIURL = ""
APITimeout = "10s"

[Submitter]
TransactionLookupMaxRetries = 10
TransactionLookupBackoff = "1s"

[Activity]
DismissDelay = "10s"
L2DismissDelay = "5s"

[Chains]
RegistryFile = ""

[Wallet]
PrivateKeys = []
WatchAddresses = []

[Notification]
Locale = "en"
MaxNotifications = 50

[Analytics]
LogEvents = false
RecorderSize = 0

[Ethprovider]
Timeout = "15s"

[Metrics]
Host = "0.0.0.0"
Port = 9091
Enabled = false
ProfilingHost = "0.0.0.0"
ProfilingPort = 6060
ProfilingEnabled = false
`
